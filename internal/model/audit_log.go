package model

import (
	"time"

	"github.com/google/uuid"
)

// ActionCreate is the only audited action in the current design.
const ActionCreate = "create"

// AuditLog is an append-only record of an action taken against a purchase.
// Changes holds a JSON snapshot of the submitted field values. The purchase
// and user references are weak lookup links, not ownership.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	PurchaseID *uuid.UUID `gorm:"type:uuid;index"`
	UserID     *uuid.UUID `gorm:"type:uuid;index"`
	Action     string     `gorm:"type:varchar(50);not null"`
	Changes    string     `gorm:"type:text"`
	Timestamp  time.Time  `gorm:"autoCreateTime"`
}
