package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/B0bbyBrown/ExpendiForge/internal/dto"
	"github.com/B0bbyBrown/ExpendiForge/internal/model"
	"github.com/B0bbyBrown/ExpendiForge/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ErrInvalidCriterion is returned when a filter criterion that must parse
// (currently only the category identifier) does not. Unlike the date
// criteria, which silently degrade to "no constraint", a bad category id is
// reported — a typo there would otherwise return the full set and look like
// a correct answer.
var ErrInvalidCriterion = errors.New("invalid filter criterion")

// SummaryCacheKey is the Redis key for the cached dashboard summary.
// Purchase creation invalidates it.
const SummaryCacheKey = "dashboard:summary"

const summaryCacheTTL = 60 * time.Second

const vendorTotalsLimit = 10

// csvHeader is the exact export header row, spaces included. It is written
// verbatim rather than through the csv writer, which would quote the
// space-prefixed cells. Column order is part of the external contract; do
// not reorder.
const csvHeader = "ID, Date, Description, Vendor, Type, Category, Quantity, Amount, Total, Paid on Collection, Notes, Uploaded By"

// ReportService backs the admin dashboard and the CSV export: filtered
// purchase listing plus the five global summary views.
type ReportService interface {
	Dashboard(ctx context.Context, filter dto.PurchaseFilter) (*dto.DashboardResponse, error)
	// ExportCSV returns the buffered CSV bytes and the timestamp-qualified
	// download filename.
	ExportCSV(ctx context.Context, filter dto.PurchaseFilter) ([]byte, string, error)
}

type reportService struct {
	purchases  repository.PurchaseRepository
	categories repository.CategoryRepository
	rdb        *redis.Client
}

func NewReportService(purchases repository.PurchaseRepository, categories repository.CategoryRepository, rdb *redis.Client) ReportService {
	return &reportService{purchases: purchases, categories: categories, rdb: rdb}
}

// BuildQuery translates raw filter criteria into a typed PurchaseQuery.
// Absent or empty criteria contribute no constraint. Malformed dates are
// dropped (a bad date filter degrades to "no date filter"); a malformed
// category identifier fails with ErrInvalidCriterion.
func BuildQuery(filter dto.PurchaseFilter) (repository.PurchaseQuery, error) {
	q := repository.PurchaseQuery{
		Search: strings.TrimSpace(filter.Search),
		Vendor: strings.TrimSpace(filter.Vendor),
		Type:   strings.TrimSpace(filter.Type),
	}

	if raw := strings.TrimSpace(filter.Category); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return repository.PurchaseQuery{}, fmt.Errorf("%w: category %q is not a valid identifier", ErrInvalidCriterion, raw)
		}
		q.CategoryID = &id
	}
	if raw := strings.TrimSpace(filter.DateFrom); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			q.DateFrom = &t
		}
	}
	if raw := strings.TrimSpace(filter.DateTo); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			q.DateTo = &t
		}
	}
	return q, nil
}

func (s *reportService) Dashboard(ctx context.Context, filter dto.PurchaseFilter) (*dto.DashboardResponse, error) {
	q, err := BuildQuery(filter)
	if err != nil {
		return nil, err
	}

	purchases, err := s.purchases.List(ctx, q)
	if err != nil {
		return nil, err
	}

	// Summary totals are global: they ignore the active filter so the
	// dashboard always shows overall spending next to the filtered list.
	summary, err := s.summary(ctx)
	if err != nil {
		return nil, err
	}

	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	vendors, err := s.purchases.DistinctVendors(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.DashboardResponse{
		Purchases:  flattenPurchases(purchases),
		Summary:    *summary,
		Categories: make([]dto.CategoryResponse, 0, len(categories)),
		Vendors:    vendors,
		Filters:    filter,
	}
	for _, c := range categories {
		resp.Categories = append(resp.Categories, dto.CategoryResponse{
			ID: c.ID, Name: c.Name, Description: c.Description,
		})
	}
	return resp, nil
}

func (s *reportService) ExportCSV(ctx context.Context, filter dto.PurchaseFilter) ([]byte, string, error) {
	q, err := BuildQuery(filter)
	if err != nil {
		return nil, "", err
	}
	purchases, err := s.purchases.List(ctx, q)
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.WriteString(csvHeader + "\n")
	w := csv.NewWriter(&buf)
	for i := range purchases {
		row := flattenPurchase(&purchases[i])
		notes := row.Notes
		paid := "No"
		if row.PaidOnCollection {
			paid = "Yes"
		}
		record := []string{
			row.ID,
			row.Date,
			row.Description,
			row.Vendor,
			row.Type,
			row.Category,
			strconv.Itoa(row.Quantity),
			"$" + row.Amount.StringFixed(2),
			"$" + row.Total.StringFixed(2),
			paid,
			notes,
			row.UploadedBy,
		}
		if err := w.Write(record); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", err
	}

	name := fmt.Sprintf("purchases_export_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), name, nil
}

// summary computes the five views, going through the Redis cache when one is
// configured. Cache errors are never surfaced: a cold or down cache just
// means hitting the store.
func (s *reportService) summary(ctx context.Context) (*dto.SpendSummary, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, SummaryCacheKey).Bytes(); err == nil {
			var sum dto.SpendSummary
			if json.Unmarshal(cached, &sum) == nil {
				return &sum, nil
			}
		}
	}

	grand, err := s.purchases.GrandTotal(ctx)
	if err != nil {
		return nil, err
	}
	byCategory, err := s.purchases.CategoryTotals(ctx)
	if err != nil {
		return nil, err
	}
	byVendor, err := s.purchases.VendorTotals(ctx, vendorTotalsLimit)
	if err != nil {
		return nil, err
	}
	byType, err := s.purchases.TypeTotals(ctx)
	if err != nil {
		return nil, err
	}
	byMonth, err := s.purchases.MonthlyTotals(ctx)
	if err != nil {
		return nil, err
	}

	sum := &dto.SpendSummary{
		GrandTotal: grand,
		ByCategory: byCategory,
		ByVendor:   byVendor,
		ByType:     byType,
		ByMonth:    byMonth,
	}

	if s.rdb != nil {
		if b, err := json.Marshal(sum); err == nil {
			if err := s.rdb.Set(ctx, SummaryCacheKey, b, summaryCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Msg("summary cache set failed")
			}
		}
	}
	return sum, nil
}

func flattenPurchases(purchases []model.Purchase) []dto.PurchaseRow {
	rows := make([]dto.PurchaseRow, 0, len(purchases))
	for i := range purchases {
		rows = append(rows, flattenPurchase(&purchases[i]))
	}
	return rows
}

// flattenPurchase resolves the joined names and derives the line total for
// one purchase.
func flattenPurchase(p *model.Purchase) dto.PurchaseRow {
	category := "N/A"
	if p.Category != nil {
		category = p.Category.Name
	}
	notes := ""
	if p.Notes != nil {
		notes = *p.Notes
	}
	return dto.PurchaseRow{
		ID:               p.ID.String(),
		Date:             p.DateCollected.Format("2006-01-02"),
		Description:      p.Description,
		Vendor:           p.Vendor,
		Type:             p.PurchaseType,
		Category:         category,
		Quantity:         p.Quantity,
		Amount:           p.Amount,
		Total:            p.LineTotal(),
		PaidOnCollection: p.PaidOnCollection,
		Notes:            notes,
		UploadedBy:       p.User.Username,
		AttachmentPath:   p.AttachmentPath,
	}
}
