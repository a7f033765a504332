package dto

import "github.com/shopspring/decimal"

// CreatePurchaseForm is bound from the multipart form of POST /v1/purchases.
// Fields stay raw strings here: the service validates and parses them so the
// whole form can be rejected (and echoed back) as one unit, and so the audit
// snapshot records exactly what was submitted.
type CreatePurchaseForm struct {
	Description      string `form:"description"`
	Amount           string `form:"amount"`
	Quantity         string `form:"quantity"`
	Vendor           string `form:"vendor"`
	DateCollected    string `form:"date_collected"`
	PurchaseType     string `form:"purchase_type"`
	CategoryID       string `form:"category_id"`
	Notes            string `form:"notes"`
	PaidOnCollection string `form:"paid_on_collection"`
}

type PurchaseResponse struct {
	ID               string          `json:"id"`
	Description      string          `json:"description"`
	Amount           decimal.Decimal `json:"amount"`
	Quantity         int             `json:"quantity"`
	Vendor           string          `json:"vendor"`
	DateCollected    string          `json:"date_collected"`
	PurchaseType     string          `json:"purchase_type"`
	CategoryID       *string         `json:"category_id,omitempty"`
	AttachmentPath   *string         `json:"attachment_path,omitempty"`
	Notes            *string         `json:"notes,omitempty"`
	PaidOnCollection bool            `json:"paid_on_collection"`
	LineTotal        decimal.Decimal `json:"line_total"`
	CreatedAt        string          `json:"created_at"`
}
