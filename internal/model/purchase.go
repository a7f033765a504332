package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Purchase is the central expense record, submitted once by a shopper and
// immutable thereafter. Amount and Quantity are validated positive at the
// boundary in addition to the storage constraints.
type Purchase struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description   string          `gorm:"not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(10,2);not null;check:amount > 0"`
	Quantity      int             `gorm:"not null;default:1;check:quantity > 0"`
	Vendor        string          `gorm:"index;not null"`
	DateCollected time.Time       `gorm:"type:date;not null;index"`
	// PurchaseType is an open string tag; "product" and "service" are the
	// values the upload form offers.
	PurchaseType     string     `gorm:"type:varchar(20);not null;default:'product'"`
	CategoryID       *uuid.UUID `gorm:"type:uuid;index"`
	AttachmentPath   *string
	Notes            *string `gorm:"type:text"`
	// No column default here: GORM omits zero-valued fields that carry one
	// from the INSERT, which would silently turn an unpaid purchase into a
	// paid one. The service always sets this field explicitly.
	PaidOnCollection bool `gorm:"not null"`
	CreatedAt        time.Time

	User     User      `gorm:"foreignKey:UserID"`
	Category *Category `gorm:"foreignKey:CategoryID"`
}

// LineTotal is amount × quantity. Always derived, never stored.
func (p *Purchase) LineTotal() decimal.Decimal {
	return p.Amount.Mul(decimal.NewFromInt(int64(p.Quantity)))
}
