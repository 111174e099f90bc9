package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Supplier struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	PaymentTerms  string `json:"payment_terms"`
	IsActive      bool   `json:"is_active"`
}

type PurchaseOrder struct {
	ID                   int64               `json:"id"`
	Supplier             FlexID              `json:"supplier"`
	SupplierName         string              `json:"supplier_name"`
	OrderNumber          string              `json:"order_number"`
	Status               string              `json:"status"`
	ExpectedDeliveryDate string              `json:"expected_delivery_date,omitempty"`
	Notes                string              `json:"notes"`
	Subtotal             decimal.Decimal     `json:"subtotal"`
	TaxAmount            decimal.Decimal     `json:"tax_amount"`
	TotalAmount          decimal.Decimal     `json:"total_amount"`
	CreatedAt            time.Time           `json:"created_at"`
	Items                []PurchaseOrderItem `json:"items"`
}

type PurchaseOrderItem struct {
	ID              int64           `json:"id,omitempty"`
	Product         FlexID          `json:"product"`
	ProductName     string          `json:"product_name,omitempty"`
	Unit            UnitRef         `json:"unit"`
	QuantityOrdered decimal.Decimal `json:"quantity_ordered"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TaxClass        FlexID          `json:"tax_class,omitempty"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

type Delivery struct {
	ID             int64           `json:"id"`
	PurchaseOrder  FlexID          `json:"purchase_order"`
	DeliveryNumber string          `json:"delivery_number"`
	Status         string          `json:"status"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
}
