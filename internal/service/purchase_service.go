package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/infra"
	"github.com/B0bbyBrown/ExpendiForge/internal/model"
	"github.com/B0bbyBrown/ExpendiForge/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrValidation marks boundary validation failures on the upload form.
// The caller reports them to the submitter; nothing is persisted.
var ErrValidation = errors.New("validation failed")

type PurchaseService interface {
	Create(ctx context.Context, userID uuid.UUID, form dto.CreatePurchaseForm, attachment *multipart.FileHeader) (*dto.PurchaseResponse, error)
	AuditTrail(ctx context.Context, purchaseID uuid.UUID) ([]model.AuditLog, error)
}

type purchaseService struct {
	purchases repository.PurchaseRepository
	audits    repository.AuditLogRepository
	store     *infra.AttachmentStore
	rdb       *redis.Client
}

func NewPurchaseService(
	purchases repository.PurchaseRepository,
	audits repository.AuditLogRepository,
	store *infra.AttachmentStore,
	rdb *redis.Client,
) PurchaseService {
	return &purchaseService{purchases: purchases, audits: audits, store: store, rdb: rdb}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// Create validates the submitted form, stores the attachment (if any), then
// inserts the purchase and its paired audit log entry in one transaction.
// Any persistence error rolls the whole transaction back: a purchase is never
// observable without its "create" audit entry.
func (s *purchaseService) Create(ctx context.Context, userID uuid.UUID, form dto.CreatePurchaseForm, attachment *multipart.FileHeader) (*dto.PurchaseResponse, error) {
	description := strings.TrimSpace(form.Description)
	vendor := strings.TrimSpace(form.Vendor)
	rawAmount := strings.TrimSpace(form.Amount)
	rawDate := strings.TrimSpace(form.DateCollected)

	if description == "" || rawAmount == "" || vendor == "" || rawDate == "" {
		return nil, fmt.Errorf("%w: description, amount, vendor, and date are required", ErrValidation)
	}

	amount, err := decimal.NewFromString(rawAmount)
	if err != nil || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be a positive number", ErrValidation)
	}

	rawQuantity := strings.TrimSpace(form.Quantity)
	if rawQuantity == "" {
		rawQuantity = "1"
	}
	quantity, err := strconv.Atoi(rawQuantity)
	if err != nil || quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ErrValidation)
	}

	dateCollected, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid date format", ErrValidation)
	}

	purchaseType := strings.TrimSpace(form.PurchaseType)
	if purchaseType == "" {
		purchaseType = "product"
	}

	var categoryID *uuid.UUID
	if raw := strings.TrimSpace(form.CategoryID); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid category", ErrValidation)
		}
		categoryID = &id
	}

	// Attachment write happens before the DB transaction. Not transactional
	// with it: a crash in between leaves an orphaned file, accepted here.
	var attachmentPath *string
	if attachment != nil && attachment.Filename != "" {
		path, err := s.store.Save(attachment)
		if err != nil {
			if errors.Is(err, infra.ErrDisallowedType) || errors.Is(err, infra.ErrTooLarge) {
				return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
			}
			return nil, err
		}
		attachmentPath = &path
	}

	var notes *string
	if n := strings.TrimSpace(form.Notes); n != "" {
		notes = &n
	}
	paid := form.PaidOnCollection != ""

	purchase := &model.Purchase{
		UserID:           userID,
		Description:      description,
		Amount:           amount,
		Quantity:         quantity,
		Vendor:           vendor,
		DateCollected:    dateCollected,
		PurchaseType:     purchaseType,
		CategoryID:       categoryID,
		AttachmentPath:   attachmentPath,
		Notes:            notes,
		PaidOnCollection: paid,
	}

	// Snapshot of the submitted values as received, for the audit trail.
	snapshot, err := json.Marshal(map[string]any{
		"description":        description,
		"amount":             rawAmount,
		"quantity":           quantity,
		"vendor":             vendor,
		"date_collected":     rawDate,
		"purchase_type":      purchaseType,
		"category_id":        form.CategoryID,
		"notes":              form.Notes,
		"paid_on_collection": paid,
	})
	if err != nil {
		return nil, err
	}

	txErr := runTx(ctx, s.purchases.DB(), func(tx *gorm.DB) error {
		if err := s.purchases.Create(ctx, tx, purchase); err != nil {
			return err
		}
		entry := &model.AuditLog{
			PurchaseID: &purchase.ID,
			UserID:     &userID,
			Action:     model.ActionCreate,
			Changes:    string(snapshot),
		}
		return s.audits.Create(ctx, tx, entry)
	})
	if txErr != nil {
		return nil, fmt.Errorf("could not save purchase: %w", txErr)
	}

	// Dashboard summary is stale now.
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, SummaryCacheKey).Err(); err != nil {
			log.Debug().Err(err).Msg("summary cache invalidation failed")
		}
	}

	return purchaseToResponse(purchase), nil
}

func (s *purchaseService) AuditTrail(ctx context.Context, purchaseID uuid.UUID) ([]model.AuditLog, error) {
	return s.audits.ListByPurchase(ctx, purchaseID)
}

func purchaseToResponse(p *model.Purchase) *dto.PurchaseResponse {
	var categoryID *string
	if p.CategoryID != nil {
		id := p.CategoryID.String()
		categoryID = &id
	}
	return &dto.PurchaseResponse{
		ID:               p.ID.String(),
		Description:      p.Description,
		Amount:           p.Amount,
		Quantity:         p.Quantity,
		Vendor:           p.Vendor,
		DateCollected:    p.DateCollected.Format("2006-01-02"),
		PurchaseType:     p.PurchaseType,
		CategoryID:       categoryID,
		AttachmentPath:   p.AttachmentPath,
		Notes:            p.Notes,
		PaidOnCollection: p.PaidOnCollection,
		LineTotal:        p.LineTotal(),
		CreatedAt:        p.CreatedAt.Format(time.RFC3339),
	}
}
