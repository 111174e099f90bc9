package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PriceMode string

const (
	PriceModeStandard  PriceMode = "standard"
	PriceModeWholesale PriceMode = "wholesale"
)

type SaleMode string

const (
	SaleModeComplete SaleMode = "complete"
	SaleModePending  SaleMode = "pending"
)

type PaymentType string

const (
	PaymentFull    PaymentType = "full"
	PaymentPartial PaymentType = "partial"
)

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentMobileMoney  PaymentMethod = "mobile_money"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCredit       PaymentMethod = "credit"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobileMoney, PaymentBankTransfer, PaymentCredit:
		return true
	}
	return false
}

const (
	SaleStatusPending   = "pending"
	SaleStatusCompleted = "completed"
	SaleStatusCancelled = "cancelled"
	SaleStatusRefunded  = "refunded"

	PaymentStatusPending = "pending"
	PaymentStatusPartial = "partial"
	PaymentStatusPaid    = "paid"
)

type Sale struct {
	ID              int64           `json:"id"`
	SaleNumber      string          `json:"sale_number"`
	SaleType        string          `json:"sale_type"`
	CustomerName    string          `json:"customer_name"`
	CustomerPhone   string          `json:"customer_phone"`
	CustomerEmail   string          `json:"customer_email"`
	Status          string          `json:"status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	CostAmount      decimal.Decimal `json:"cost_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	DueDate         string          `json:"due_date"`
	Notes           string          `json:"notes"`
	SoldByName      string          `json:"sold_by_name"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []SaleItem      `json:"items"`

	PackagingItems []PackagingItem `json:"packaging_items,omitempty"`
	// PackagingTransaction is set on completion when the sale carried
	// packaging.
	PackagingTransaction *PackagingTransaction `json:"packaging_transaction,omitempty"`
}

type SaleItem struct {
	ID          int64           `json:"id"`
	Product     FlexID          `json:"product"`
	ProductName string          `json:"product_name"`
	ProductSKU  string          `json:"product_sku"`
	Unit        UnitRef         `json:"unit"`
	UnitName    string          `json:"unit_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	PriceMode   PriceMode       `json:"price_mode"`
}
