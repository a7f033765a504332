package dto

import "github.com/shopspring/decimal"

// ── Filter ───────────────────────────────────────────────────────────────────

// PurchaseFilter is bound from the query string of GET /v1/dashboard and
// GET /v1/export. Every criterion is optional; empty means no constraint.
type PurchaseFilter struct {
	Search   string `form:"search" json:"search"`
	Category string `form:"category" json:"category"`
	Vendor   string `form:"vendor" json:"vendor"`
	Type     string `form:"type" json:"type"`
	DateFrom string `form:"date_from" json:"date_from"` // YYYY-MM-DD
	DateTo   string `form:"date_to" json:"date_to"`     // YYYY-MM-DD
}

// ── Aggregate rows ───────────────────────────────────────────────────────────

type CategoryTotal struct {
	Name  string          `json:"name"`
	Total decimal.Decimal `json:"total"`
}

type VendorTotal struct {
	Vendor string          `json:"vendor"`
	Total  decimal.Decimal `json:"total"`
}

type TypeTotal struct {
	Type  string          `json:"type" gorm:"column:purchase_type"`
	Total decimal.Decimal `json:"total"`
}

type MonthlyTotal struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Total decimal.Decimal `json:"total"`
}

// SpendSummary holds the five dashboard views. All of them are computed over
// the full purchase set, never the filtered one.
type SpendSummary struct {
	GrandTotal decimal.Decimal `json:"grand_total"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByVendor   []VendorTotal   `json:"by_vendor"`
	ByType     []TypeTotal     `json:"by_type"`
	ByMonth    []MonthlyTotal  `json:"by_month"`
}

// ── Dashboard ────────────────────────────────────────────────────────────────

// PurchaseRow is one flattened purchase as shown on the dashboard and in the
// CSV export: category resolved to its name (or "N/A"), uploader resolved to
// a username, line total derived.
type PurchaseRow struct {
	ID               string          `json:"id"`
	Date             string          `json:"date"`
	Description      string          `json:"description"`
	Vendor           string          `json:"vendor"`
	Type             string          `json:"type"`
	Category         string          `json:"category"`
	Quantity         int             `json:"quantity"`
	Amount           decimal.Decimal `json:"amount"`
	Total            decimal.Decimal `json:"total"`
	PaidOnCollection bool            `json:"paid_on_collection"`
	Notes            string          `json:"notes"`
	UploadedBy       string          `json:"uploaded_by"`
	AttachmentPath   *string         `json:"attachment_path,omitempty"`
}

type DashboardResponse struct {
	Purchases  []PurchaseRow      `json:"purchases"`
	Summary    SpendSummary       `json:"summary"`
	Categories []CategoryResponse `json:"categories"`
	Vendors    []string           `json:"vendors"`
	Filters    PurchaseFilter     `json:"filters"`
}
