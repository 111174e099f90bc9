// Package receipt turns a sale into a printable receipt, as an HTML page
// sized for the printer or as a raw ESC/POS stream.
package receipt

import (
	"strings"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	Currency        = "MGA"
	WalkInCustomer  = "Walk-in Customer"
	DefaultDueAfter = 30 * 24 * time.Hour
)

type Printer struct {
	Name       string
	Width      string
	Chars      int
	FontSize   string
	LineHeight string
	Margin     string
}

const DefaultPrinter = "thermal_80mm"

var printers = map[string]Printer{
	"thermal_80mm": {Name: "thermal_80mm", Width: "80mm", Chars: 32, FontSize: "12px", LineHeight: "1.2", Margin: "5mm"},
	"thermal_58mm": {Name: "thermal_58mm", Width: "58mm", Chars: 24, FontSize: "10px", LineHeight: "1.1", Margin: "3mm"},
	"standard_a4":  {Name: "standard_a4", Width: "210mm", Chars: 80, FontSize: "14px", LineHeight: "1.4", Margin: "20mm"},
}

// LookupPrinter returns the named profile. Unknown names fall back to the
// 80mm thermal profile and report false.
func LookupPrinter(name string) (Printer, bool) {
	p, ok := printers[name]
	if !ok {
		return printers[DefaultPrinter], false
	}
	return p, true
}

type Store struct {
	Name    string
	Address string
	Phone   string
}

type Item struct {
	Name      string
	UnitName  string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// PackagingItem is returnable packaging that left with the sale.
type PackagingItem struct {
	Item
	Status string
}

type Receipt struct {
	PrintID       string
	Title         string
	SaleNumber    string
	Status        string
	Date          time.Time
	Customer      string
	CustomerPhone string
	Cashier       string
	PaymentMethod string
	PaymentStatus string

	Items     []Item
	Subtotal  decimal.Decimal
	Tax       decimal.Decimal
	Total     decimal.Decimal
	Paid      decimal.Decimal
	Remaining decimal.Decimal
	// DueDate is zero when nothing is left to pay.
	DueDate time.Time

	Packaging []PackagingItem
	// PackagingTotal is the deposit paid for consigned packaging.
	PackagingTotal decimal.Decimal
}

func (r *Receipt) HasBalance() bool { return r.Remaining.IsPositive() }

// FromSale builds the receipt of s. cashier is the name printed in the
// footer.
func FromSale(s *model.Sale, cashier string) *Receipt {
	date := s.CreatedAt
	if date.IsZero() {
		date = time.Now()
	}

	r := &Receipt{
		PrintID:       uuid.NewString(),
		Title:         "SALE RECEIPT",
		SaleNumber:    s.SaleNumber,
		Status:        s.Status,
		Date:          date,
		Customer:      strings.TrimSpace(s.CustomerName),
		CustomerPhone: s.CustomerPhone,
		Cashier:       cashier,
		PaymentMethod: string(s.PaymentMethod),
		PaymentStatus: paymentStatusText(s.PaymentStatus),
		Tax:           s.TaxAmount,
		Total:         s.TotalAmount,
		Paid:          s.PaidAmount,
	}
	if r.Customer == "" {
		r.Customer = WalkInCustomer
	}
	if r.Cashier == "" {
		r.Cashier = s.SoldByName
	}
	if s.Status == model.SaleStatusPending {
		r.Title = "PENDING SALE"
	}

	itemsTotal := decimal.Zero
	for _, it := range s.Items {
		total := it.TotalPrice
		if total.IsZero() {
			total = it.Quantity.Mul(it.UnitPrice)
		}
		unitName := it.UnitName
		if unitName == "" {
			unitName = it.Unit.Name
		}
		r.Items = append(r.Items, Item{
			Name:      it.ProductName,
			UnitName:  unitName,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Total:     total,
		})
		itemsTotal = itemsTotal.Add(total)
	}
	if r.Total.IsZero() {
		r.Total = itemsTotal
	}

	for _, it := range s.PackagingItems {
		total := it.TotalPrice
		if total.IsZero() {
			total = it.Quantity.Mul(it.UnitPrice)
		}
		r.Packaging = append(r.Packaging, PackagingItem{
			Item: Item{
				Name:      it.ProductName,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Total:     total,
			},
			Status: string(it.Status),
		})
		if it.Status.Payable() {
			r.PackagingTotal = r.PackagingTotal.Add(total)
		}
	}
	r.Subtotal = s.Subtotal
	if r.Subtotal.IsZero() {
		r.Subtotal = r.Total
	}

	r.Remaining = s.RemainingAmount
	if r.Remaining.IsZero() {
		r.Remaining = sale.Remaining(r.Total, r.Paid)
	}
	if r.HasBalance() {
		r.DueDate = dueDate(s.DueDate, date)
	}
	return r
}

func dueDate(raw string, from time.Time) time.Time {
	if raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t
		}
	}
	return from.Add(DefaultDueAfter)
}

func paymentStatusText(s string) string {
	switch s {
	case model.PaymentStatusPaid:
		return "PAID"
	case model.PaymentStatusPartial:
		return "PARTIAL"
	case model.PaymentStatusPending:
		return "PENDING"
	}
	return "UNKNOWN"
}

func Money(d decimal.Decimal) string {
	return d.StringFixed(2) + " " + Currency
}

func Quantity(d decimal.Decimal) string {
	if d.Equal(d.Truncate(0)) {
		return d.StringFixed(0)
	}
	return d.StringFixed(2)
}
