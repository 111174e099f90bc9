package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PackagingStatus is how returnable packaging leaves the shop with a sale.
type PackagingStatus string

const (
	// PackagingConsignation is a deposit paid now and refunded on return.
	PackagingConsignation PackagingStatus = "consignation"
	// PackagingExchange swaps empties brought in by the customer.
	PackagingExchange PackagingStatus = "exchange"
	// PackagingDue is owed back to the shop and not paid.
	PackagingDue PackagingStatus = "due"
)

func (s PackagingStatus) Valid() bool {
	switch s {
	case PackagingConsignation, PackagingExchange, PackagingDue:
		return true
	}
	return false
}

// Payable reports whether packaging in this status is charged with the sale.
func (s PackagingStatus) Payable() bool { return s == PackagingConsignation }

type PackagingItem struct {
	ID            int64           `json:"id,omitempty"`
	Product       FlexID          `json:"product"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          FlexID          `json:"unit"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TotalPrice    decimal.Decimal `json:"total_price,omitempty"`
	Status        PackagingStatus `json:"status"`
	CustomerName  string          `json:"customer_name,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Notes         string          `json:"notes"`
}

// PackagingValidation is a sale's packaging as reviewed after the sale, with
// the products that could still be added to it.
type PackagingValidation struct {
	Sale              *Sale           `json:"sale"`
	PackagingItems    []PackagingItem `json:"packaging_items"`
	AvailableProducts []Product       `json:"available_products"`
}

const (
	PackagingTransactionActive    = "active"
	PackagingTransactionCompleted = "completed"
	PackagingTransactionCancelled = "cancelled"
)

type PackagingTransaction struct {
	ID                int64           `json:"id"`
	TransactionNumber string          `json:"transaction_number"`
	TransactionType   PackagingStatus `json:"transaction_type"`
	Sale              FlexID          `json:"sale"`
	SaleNumber        string          `json:"sale_number"`
	CustomerName      string          `json:"customer_name"`
	CustomerPhone     string          `json:"customer_phone"`
	Status            string          `json:"status"`
	PaymentStatus     string          `json:"payment_status"`
	PaymentMethod     PaymentMethod   `json:"payment_method"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	PaidAmount        decimal.Decimal `json:"paid_amount"`
	RemainingAmount   decimal.Decimal `json:"remaining_amount"`
	Notes             string          `json:"notes"`
	CreatedAt         time.Time       `json:"created_at"`
	Items             []PackagingItem `json:"items"`
}

// Settleable reports whether the packaging can be marked returned: due
// packaging while active, consigned packaging once its deposit is paid.
func (t *PackagingTransaction) Settleable() bool {
	switch t.TransactionType {
	case PackagingDue:
		return t.Status == PackagingTransactionActive
	case PackagingConsignation:
		return t.PaymentStatus == PaymentStatusPaid
	}
	return false
}

// Payable reports whether a deposit payment can still be taken.
func (t *PackagingTransaction) Payable() bool {
	return t.TransactionType == PackagingConsignation &&
		t.Status == PackagingTransactionActive &&
		(t.PaymentStatus == PaymentStatusPending || t.PaymentStatus == PaymentStatusPartial) &&
		t.RemainingAmount.IsPositive()
}
