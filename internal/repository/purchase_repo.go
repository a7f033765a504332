package repository

import (
	"context"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseQuery is the typed, already-validated form of dto.PurchaseFilter.
// Zero-value fields contribute no constraint; supplied criteria are ANDed.
// The service layer owns the translation (lenient dates, strict category id);
// this package only applies what it is given.
type PurchaseQuery struct {
	// Search matches as a substring of description OR vendor.
	Search     string
	CategoryID *uuid.UUID
	Vendor     string
	Type       string
	DateFrom   *time.Time
	DateTo     *time.Time
}

// PurchaseRepository defines data access for purchases, including the
// aggregate views backing the dashboard. Services depend on this interface,
// not on the concrete GORM implementation, enabling unit testing via
// in-memory fakes.
type PurchaseRepository interface {
	// Create inserts inside tx when non-nil, so the caller can pair it with
	// the audit log write in one transaction.
	Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error

	// List returns matching purchases ordered by date_collected descending,
	// created_at descending as the stable tie-break. Category and User are
	// preloaded.
	List(ctx context.Context, q PurchaseQuery) ([]model.Purchase, error)

	// Aggregates — always over the full unfiltered set.
	GrandTotal(ctx context.Context) (decimal.Decimal, error)
	CategoryTotals(ctx context.Context) ([]dto.CategoryTotal, error)
	VendorTotals(ctx context.Context, limit int) ([]dto.VendorTotal, error)
	TypeTotals(ctx context.Context) ([]dto.TypeTotal, error)
	MonthlyTotals(ctx context.Context) ([]dto.MonthlyTotal, error)

	DistinctVendors(ctx context.Context) ([]string, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type purchaseRepo struct{ db *gorm.DB }

func NewPurchaseRepository(db *gorm.DB) PurchaseRepository { return &purchaseRepo{db: db} }

func (r *purchaseRepo) Create(ctx context.Context, tx *gorm.DB, p *model.Purchase) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).Create(p).Error
}

func (r *purchaseRepo) List(ctx context.Context, q PurchaseQuery) ([]model.Purchase, error) {
	var purchases []model.Purchase
	err := applyQuery(r.db.WithContext(ctx).Model(&model.Purchase{}), q).
		Preload("Category").
		Preload("User").
		Order("date_collected DESC, created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// applyQuery chains one Where per supplied criterion. Substring match uses
// LIKE, so case sensitivity follows the store collation.
func applyQuery(db *gorm.DB, q PurchaseQuery) *gorm.DB {
	if q.Search != "" {
		pattern := "%" + q.Search + "%"
		db = db.Where("description LIKE ? OR vendor LIKE ?", pattern, pattern)
	}
	if q.CategoryID != nil {
		db = db.Where("category_id = ?", *q.CategoryID)
	}
	if q.Vendor != "" {
		db = db.Where("vendor = ?", q.Vendor)
	}
	if q.Type != "" {
		db = db.Where("purchase_type = ?", q.Type)
	}
	if q.DateFrom != nil {
		db = db.Where("date_collected >= ?", *q.DateFrom)
	}
	if q.DateTo != nil {
		db = db.Where("date_collected <= ?", *q.DateTo)
	}
	return db
}

func (r *purchaseRepo) GrandTotal(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("COALESCE(SUM(amount * quantity), 0)").Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// CategoryTotals inner-joins categories, so purchases without a category are
// excluded from this view.
func (r *purchaseRepo) CategoryTotals(ctx context.Context) ([]dto.CategoryTotal, error) {
	var rows []dto.CategoryTotal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("categories.name AS name, SUM(purchases.amount * purchases.quantity) AS total").
		Joins("INNER JOIN categories ON categories.id = purchases.category_id").
		Group("categories.name").
		Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

// VendorTotals is truncated to limit rows, strictly descending by total with
// vendor name as the deterministic tie-break.
func (r *purchaseRepo) VendorTotals(ctx context.Context, limit int) ([]dto.VendorTotal, error) {
	var rows []dto.VendorTotal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("vendor, SUM(amount * quantity) AS total").
		Group("vendor").
		Order("total DESC, vendor ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *purchaseRepo) TypeTotals(ctx context.Context) ([]dto.TypeTotal, error) {
	var rows []dto.TypeTotal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("purchase_type, SUM(amount * quantity) AS total").
		Group("purchase_type").
		Order("purchase_type ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *purchaseRepo) MonthlyTotals(ctx context.Context) ([]dto.MonthlyTotal, error) {
	var rows []dto.MonthlyTotal
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Select("EXTRACT(YEAR FROM date_collected)::int AS year, EXTRACT(MONTH FROM date_collected)::int AS month, SUM(amount * quantity) AS total").
		Group("year, month").
		Order("year ASC, month ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *purchaseRepo) DistinctVendors(ctx context.Context) ([]string, error) {
	var vendors []string
	err := r.db.WithContext(ctx).Model(&model.Purchase{}).
		Distinct("vendor").
		Order("vendor ASC").
		Pluck("vendor", &vendors).Error
	return vendors, err
}

func (r *purchaseRepo) DB() *gorm.DB { return r.db }
