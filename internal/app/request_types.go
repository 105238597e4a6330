package app

import "github.com/shopspring/decimal"

// ItemRequest is the input for creating or updating an item.
type ItemRequest struct {
	Name      string          `json:"name" validate:"required,max=120"`
	Category  string          `json:"category" validate:"required,food_category"`
	Quantity  decimal.Decimal `json:"quantity" validate:"gte=0"`
	Unit      string          `json:"unit" validate:"max=32"`
	Location  string          `json:"location" validate:"max=120"`
	ExpiresAt string          `json:"expired_date" validate:"omitempty,datetime=2006-01-02"` // empty means no expiry
}

// ViewRequest narrows a listing view. Empty fields fall back to the session criteria.
type ViewRequest struct {
	Category string
	Status   string
}

// ReportRequest is the raw report query. From and To are ISO dates and both required.
type ReportRequest struct {
	From     string
	To       string
	Category string
	Status   string
}
