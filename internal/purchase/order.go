package purchase

import (
	"errors"
	"strings"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

var (
	ErrNoSupplier       = errors.New("a supplier is required")
	ErrEmptyOrder       = errors.New("purchase order has no items")
	ErrInvalidQuantity  = errors.New("quantity must be greater than zero")
	ErrNegativeUnitCost = errors.New("unit cost cannot be negative")
	ErrLineNotFound     = errors.New("purchase order line not found")
)

type Line struct {
	ProductID   int64
	ProductName string
	Unit        model.UnitRef
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TaxClassID  int64
}

func (l Line) Total() decimal.Decimal { return l.Quantity.Mul(l.UnitCost) }

// Order builds a purchase order whose lines may be in any unit the product
// converts to. Unit costs start from the product's base cost price.
// Not safe for concurrent use.
type Order struct {
	conv *unit.Converter

	SupplierID           int64
	ExpectedDeliveryDate string
	Notes                string

	lines []Line
}

func NewOrder(conv *unit.Converter, supplierID int64) *Order {
	return &Order{conv: conv, SupplierID: supplierID}
}

// UnitCost is the cost of one u of p derived from its base cost price.
func UnitCost(conv *unit.Converter, p *model.Product, u model.UnitRef) decimal.Decimal {
	if conv == nil || !u.Valid() || u.ID == p.BaseUnit.ID {
		return unit.RoundPrice(p.CostPrice)
	}
	cost, _ := conv.PriceFromBase(p.CostPrice, p.BaseUnit.ID, u.ID)
	return unit.RoundPrice(cost)
}

// Add orders qty of p in u. A zero unit means the base unit. Adding the same
// product and unit again raises the quantity of the existing line.
func (o *Order) Add(p *model.Product, u model.UnitRef, qty decimal.Decimal) (Line, error) {
	if !qty.IsPositive() {
		return Line{}, ErrInvalidQuantity
	}
	if !u.Valid() {
		u = p.BaseUnit
	}
	if o.conv != nil {
		u = o.conv.Graph().Ref(u)
	}

	if i := o.find(p.ID, u.ID); i >= 0 {
		o.lines[i].Quantity = o.lines[i].Quantity.Add(qty)
		return o.lines[i], nil
	}

	l := Line{
		ProductID:   p.ID,
		ProductName: p.Name,
		Unit:        u,
		Quantity:    qty,
		UnitCost:    UnitCost(o.conv, p, u),
	}
	if p.TaxClass != nil {
		l.TaxClassID = p.TaxClass.ID
	}
	o.lines = append(o.lines, l)
	return l, nil
}

// SetUnitCost overrides the derived cost, for a supplier price that differs
// from the catalog.
func (o *Order) SetUnitCost(productID, unitID int64, cost decimal.Decimal) error {
	if cost.IsNegative() {
		return ErrNegativeUnitCost
	}
	i := o.find(productID, unitID)
	if i < 0 {
		return ErrLineNotFound
	}
	o.lines[i].UnitCost = unit.RoundPrice(cost)
	return nil
}

func (o *Order) Remove(productID, unitID int64) bool {
	i := o.find(productID, unitID)
	if i < 0 {
		return false
	}
	o.lines = append(o.lines[:i], o.lines[i+1:]...)
	return true
}

func (o *Order) find(productID, unitID int64) int {
	for i, l := range o.lines {
		if l.ProductID == productID && l.Unit.ID == unitID {
			return i
		}
	}
	return -1
}

func (o *Order) Lines() []Line {
	return append([]Line(nil), o.lines...)
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.lines {
		total = total.Add(l.Total())
	}
	return unit.RoundPrice(total)
}

func (o *Order) Input() (backend.CreatePurchaseOrderInput, error) {
	if o.SupplierID == 0 {
		return backend.CreatePurchaseOrderInput{}, ErrNoSupplier
	}
	if len(o.lines) == 0 {
		return backend.CreatePurchaseOrderInput{}, ErrEmptyOrder
	}
	items := make([]backend.PurchaseOrderItemInput, 0, len(o.lines))
	for _, l := range o.lines {
		items = append(items, backend.PurchaseOrderItemInput{
			Product:         l.ProductID,
			Unit:            l.Unit.ID,
			QuantityOrdered: unit.RoundQuantity(l.Quantity),
			UnitCost:        l.UnitCost,
			TaxClass:        l.TaxClassID,
		})
	}
	return backend.CreatePurchaseOrderInput{
		Supplier:             o.SupplierID,
		ExpectedDeliveryDate: strings.TrimSpace(o.ExpectedDeliveryDate),
		Notes:                o.Notes,
		Items:                items,
	}, nil
}
