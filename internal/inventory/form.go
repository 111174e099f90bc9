package inventory

import (
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

type Field string

const (
	FieldStock          Field = "stock_quantity"
	FieldMinStock       Field = "min_stock_level"
	FieldMaxStock       Field = "max_stock_level"
	FieldPrice          Field = "price"
	FieldCostPrice      Field = "cost_price"
	FieldWholesalePrice Field = "wholesale_price"
)

var Fields = []Field{FieldStock, FieldMinStock, FieldMaxStock, FieldPrice, FieldCostPrice, FieldWholesalePrice}

var (
	ErrUnknownField  = errors.New("unknown inventory field")
	ErrNegativeValue = errors.New("value cannot be negative")
	ErrNotLoaded     = errors.New("form has no product loaded")
)

func (f Field) quantity() bool {
	return f == FieldStock || f == FieldMinStock || f == FieldMaxStock
}

func (f Field) known() bool {
	for _, k := range Fields {
		if k == f {
			return true
		}
	}
	return false
}

// Form edits a product's stock levels and prices in a display unit. The base
// values are the source of truth: every displayed number is derived from
// them, and every edit is converted back into them straight away, so
// switching units never compounds rounding.
// Not safe for concurrent use.
type Form struct {
	conv    *unit.Converter
	product *model.Product
	display model.UnitRef

	base         map[Field]decimal.Decimal
	hasWholesale bool
	dirty        map[Field]bool
}

func NewForm(conv *unit.Converter) *Form {
	return &Form{conv: conv}
}

// Load fills the form from p, shown in display. A zero display unit means
// the product's base unit.
func (f *Form) Load(p *model.Product, display model.UnitRef) {
	cp := *p
	f.product = &cp
	f.base = map[Field]decimal.Decimal{
		FieldStock:     p.StockQuantity,
		FieldMinStock:  p.MinStockLevel,
		FieldMaxStock:  p.MaxStockLevel,
		FieldPrice:     p.Price,
		FieldCostPrice: p.CostPrice,
	}
	f.hasWholesale = p.WholesalePrice.Valid
	if f.hasWholesale {
		f.base[FieldWholesalePrice] = p.WholesalePrice.Decimal
	}
	f.dirty = make(map[Field]bool)
	f.SwitchUnit(display)
}

func (f *Form) Product() *model.Product { return f.product }

func (f *Form) Unit() model.UnitRef { return f.display }

// SwitchUnit changes the display unit. Values are re-derived from the base
// values, never from the previously displayed ones.
func (f *Form) SwitchUnit(display model.UnitRef) {
	if f.product == nil {
		return
	}
	if !display.Valid() {
		display = f.product.BaseUnit
	}
	if g := f.conv.Graph(); g != nil {
		display = g.Ref(display)
	}
	f.display = display
}

func (f *Form) baseUnitID() int64 { return f.product.BaseUnit.ID }

// Value is field as shown in the current display unit, rounded for display.
// The second result is false for an unset wholesale price.
func (f *Form) Value(field Field) (decimal.Decimal, bool) {
	if f.product == nil {
		return decimal.Zero, false
	}
	v, ok := f.base[field]
	if !ok {
		return decimal.Zero, false
	}
	if field.quantity() {
		out, _ := f.conv.QuantityFromBase(v, f.baseUnitID(), f.display.ID)
		return unit.RoundQuantity(out), true
	}
	out, _ := f.conv.PriceFromBase(v, f.baseUnitID(), f.display.ID)
	return unit.RoundPrice(out), true
}

func (f *Form) Values() map[Field]decimal.Decimal {
	out := make(map[Field]decimal.Decimal, len(Fields))
	for _, field := range Fields {
		if v, ok := f.Value(field); ok {
			out[field] = v
		}
	}
	return out
}

// Edit records value, given in the current display unit.
func (f *Form) Edit(field Field, value decimal.Decimal) error {
	if f.product == nil {
		return ErrNotLoaded
	}
	if !field.known() {
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	if value.IsNegative() {
		return fmt.Errorf("%s: %w", field, ErrNegativeValue)
	}

	var base decimal.Decimal
	if field.quantity() {
		base, _ = f.conv.QuantityToBase(value, f.display.ID, f.baseUnitID())
	} else {
		base, _ = f.conv.PriceToBase(value, f.display.ID, f.baseUnitID())
	}
	f.base[field] = base
	if field == FieldWholesalePrice {
		f.hasWholesale = true
	}
	f.dirty[field] = true
	return nil
}

// ClearWholesale removes the wholesale price so the standard price applies.
func (f *Form) ClearWholesale() {
	if f.product == nil || !f.hasWholesale {
		return
	}
	delete(f.base, FieldWholesalePrice)
	f.hasWholesale = false
	f.dirty[FieldWholesalePrice] = true
}

func (f *Form) Dirty() bool { return len(f.dirty) > 0 }

// Payload is the update body in base-unit terms. Stock counts are whole
// numbers; prices keep two decimals.
func (f *Form) Payload() map[string]any {
	if f.product == nil {
		return nil
	}
	out := map[string]any{
		string(FieldStock):     unit.RoundStockCount(f.base[FieldStock]).IntPart(),
		string(FieldMinStock):  unit.RoundStockCount(f.base[FieldMinStock]).IntPart(),
		string(FieldMaxStock):  unit.RoundStockCount(f.base[FieldMaxStock]).IntPart(),
		string(FieldPrice):     unit.RoundPrice(f.base[FieldPrice]),
		string(FieldCostPrice): unit.RoundPrice(f.base[FieldCostPrice]),
	}
	if f.hasWholesale {
		out[string(FieldWholesalePrice)] = unit.RoundPrice(f.base[FieldWholesalePrice])
	} else {
		out[string(FieldWholesalePrice)] = nil
	}
	return out
}
