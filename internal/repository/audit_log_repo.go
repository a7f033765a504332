package repository

import (
	"context"

	"github.com/B0bbyBrown/ExpendiForge/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository appends to the audit trail. Entries are immutable:
// there is no update or delete.
type AuditLogRepository interface {
	// Create inserts inside tx when non-nil — callers pair it with the
	// purchase insert so both commit or neither does.
	Create(ctx context.Context, tx *gorm.DB, entry *model.AuditLog) error
	ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]model.AuditLog, error)
}

type auditLogRepo struct{ db *gorm.DB }

func NewAuditLogRepository(db *gorm.DB) AuditLogRepository { return &auditLogRepo{db: db} }

func (r *auditLogRepo) Create(ctx context.Context, tx *gorm.DB, entry *model.AuditLog) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(entry).Error
}

func (r *auditLogRepo) ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]model.AuditLog, error) {
	var entries []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("purchase_id = ?", purchaseID).
		Order("timestamp ASC").
		Find(&entries).Error
	return entries, err
}
