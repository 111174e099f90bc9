// Package cart keeps the lines of one point-of-sale session and derives
// remaining stock, prices and tax from them.
package cart

import (
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Key identifies a line. The same product in another unit or price mode is
// a separate line.
type Key struct {
	ProductID int64           `json:"product_id"`
	UnitID    int64           `json:"unit_id"`
	PriceMode model.PriceMode `json:"price_mode"`
}

type Line struct {
	ID string `json:"id"`
	Key
	ProductName string              `json:"product_name"`
	SKU         string              `json:"sku"`
	UnitName    string              `json:"unit_name"`
	UnitSymbol  string              `json:"unit_symbol"`
	Quantity    decimal.Decimal     `json:"quantity"`
	UnitPrice   decimal.Decimal     `json:"unit_price"`
	TaxRate     decimal.NullDecimal `json:"tax_rate"`
	// BaseUnitID and PackagingPrice drive the packaging derived from this
	// line. PackagingPrice is null for products without returnable packaging.
	BaseUnitID     int64               `json:"base_unit_id"`
	PackagingPrice decimal.NullDecimal `json:"packaging_price"`
}

func (l Line) Total() decimal.Decimal { return l.Quantity.Mul(l.UnitPrice) }

func (l Line) Tax() TaxSplit { return SplitInclusive(l.Total(), l.TaxRate) }

// UnitAvailability is how much of one unit can still be added.
type UnitAvailability struct {
	Unit      model.UnitStock `json:"unit"`
	Available decimal.Decimal `json:"available"`
}

// Cart is owned by a single POS session and is not safe for concurrent use.
type Cart struct {
	conv      *unit.Converter
	saleMode  model.SaleMode
	priceMode model.PriceMode
	lines     []*Line
	stock     map[int64]*model.StockAvailability
	packaging packagingState
}

// New returns an empty cart in complete sale mode and standard pricing.
// conv may be nil, in which case unit prices come only from the product and
// stock payloads.
func New(conv *unit.Converter) *Cart {
	return &Cart{
		conv:      conv,
		saleMode:  model.SaleModeComplete,
		priceMode: model.PriceModeStandard,
		stock:     make(map[int64]*model.StockAvailability),
		packaging: newPackagingState(),
	}
}

func (c *Cart) SaleMode() model.SaleMode          { return c.saleMode }
func (c *Cart) SetSaleMode(m model.SaleMode)      { c.saleMode = m }
func (c *Cart) PriceMode() model.PriceMode        { return c.priceMode }
func (c *Cart) SetPriceMode(m model.PriceMode)    { c.priceMode = m }
func (c *Cart) SetConverter(conv *unit.Converter) { c.conv = conv }

// LoadStock stores fresh availability payloads, replacing older ones for the
// same products.
func (c *Cart) LoadStock(avail ...model.StockAvailability) {
	for i := range avail {
		s := avail[i]
		c.stock[s.ProductID] = &s
	}
}

func (c *Cart) ForgetStock(productID int64) { delete(c.stock, productID) }

func (c *Cart) HasStock(productID int64) bool {
	_, ok := c.stock[productID]
	return ok
}

// Availability derives what is left of each unit of productID once the
// current lines are reserved. It is recomputed on every call.
func (c *Cart) Availability(productID int64) ([]UnitAvailability, bool) {
	s, ok := c.stock[productID]
	if !ok {
		return nil, false
	}
	remaining := c.remainingBase(s)
	out := make([]UnitAvailability, 0, len(s.AvailableUnits))
	for _, u := range s.AvailableUnits {
		out = append(out, UnitAvailability{Unit: u, Available: availableIn(u, remaining)})
	}
	return out, true
}

func (c *Cart) Available(productID, unitID int64) (decimal.Decimal, error) {
	s, ok := c.stock[productID]
	if !ok {
		return decimal.Zero, ErrStockLoading
	}
	u, ok := s.Unit(unitID)
	if !ok {
		return decimal.Zero, ErrUnitNotStocked
	}
	return availableIn(u, c.remainingBase(s)), nil
}

func (c *Cart) remainingBase(s *model.StockAvailability) decimal.Decimal {
	base, _ := s.BaseStock()
	reserved := decimal.Zero
	for _, l := range c.lines {
		if l.ProductID != s.ProductID {
			continue
		}
		reserved = reserved.Add(l.Quantity.Mul(unitFactor(s, l.UnitID)))
	}
	remaining := base.Sub(reserved)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

func unitFactor(s *model.StockAvailability, unitID int64) decimal.Decimal {
	u, ok := s.Unit(unitID)
	if !ok || u.IsBaseUnit || !u.ConversionFactor.IsPositive() {
		return decimal.NewFromInt(1)
	}
	return u.ConversionFactor
}

func availableIn(u model.UnitStock, remainingBase decimal.Decimal) decimal.Decimal {
	if u.IsBaseUnit {
		return remainingBase
	}
	f := u.ConversionFactor
	if !f.IsPositive() {
		f = decimal.NewFromInt(1)
	}
	return remainingBase.Div(f).Floor()
}

// Add puts qty of p in unitID into the cart at the cart's current price mode.
func (c *Cart) Add(p *model.Product, unitID int64, qty decimal.Decimal) (Line, error) {
	return c.AddWithMode(p, unitID, c.priceMode, qty)
}

// AddWithMode merges into an existing line with the same key or starts a new
// one. In complete sale mode the increment must fit in the current
// availability; a rejected add leaves the cart as it was.
func (c *Cart) AddWithMode(p *model.Product, unitID int64, mode model.PriceMode, qty decimal.Decimal) (Line, error) {
	if !qty.IsPositive() {
		return Line{}, ErrInvalidQuantity
	}
	if mode == "" {
		mode = model.PriceModeStandard
	}

	var stockUnit *model.UnitStock
	s, loaded := c.stock[p.ID]
	if loaded {
		if u, ok := s.Unit(unitID); ok {
			stockUnit = &u
		}
	}

	if c.saleMode != model.SaleModePending {
		if !loaded {
			return Line{}, ErrStockLoading
		}
		if stockUnit == nil {
			return Line{}, ErrUnitNotStocked
		}
		avail := availableIn(*stockUnit, c.remainingBase(s))
		if !avail.IsPositive() {
			return Line{}, &StockError{ProductName: p.Name, UnitName: stockUnit.Name, Available: avail, Requested: qty, Err: ErrOutOfStock}
		}
		if qty.GreaterThan(avail) {
			return Line{}, &StockError{ProductName: p.Name, UnitName: stockUnit.Name, Available: avail, Requested: qty, Err: ErrInsufficientStock}
		}
	}

	key := Key{ProductID: p.ID, UnitID: unitID, PriceMode: mode}
	c.packaging.touch(p.ID)
	if l := c.find(key); l != nil {
		l.Quantity = l.Quantity.Add(qty)
		return *l, nil
	}

	l := &Line{
		ID:          uuid.NewString(),
		Key:         key,
		ProductName: p.Name,
		SKU:         p.SKU,
		Quantity:    qty,
		UnitPrice:   UnitPrice(p, unitID, stockUnit, c.conv, mode),
		TaxRate:     p.TaxRate(),
		BaseUnitID:  p.BaseUnit.ID,
	}
	if price, ok := p.Packaging(); ok {
		l.PackagingPrice = decimal.NewNullDecimal(price)
	}
	l.UnitName, l.UnitSymbol = c.unitLabel(p, unitID, stockUnit)
	c.lines = append(c.lines, l)
	return *l, nil
}

func (c *Cart) unitLabel(p *model.Product, unitID int64, stockUnit *model.UnitStock) (string, string) {
	if stockUnit != nil && stockUnit.Name != "" {
		return stockUnit.Name, stockUnit.Symbol
	}
	if cu, ok := p.CompatibleUnit(unitID); ok && cu.Unit.Name != "" {
		return cu.Unit.Name, cu.Unit.Symbol
	}
	if c.conv != nil {
		if ref := c.conv.Graph().Ref(model.UnitRef{ID: unitID}); ref.Name != "" {
			return ref.Name, ref.Symbol
		}
	}
	if unitID == p.BaseUnit.ID {
		return p.BaseUnit.Name, p.BaseUnit.Symbol
	}
	return "", ""
}

// SetQuantity changes a line's quantity. Zero or less removes the line.
// Lowering a quantity is always allowed. Raising it in complete sale mode is
// capped at what is still available plus what this line already holds.
func (c *Cart) SetQuantity(key Key, qty decimal.Decimal) error {
	l := c.find(key)
	if l == nil {
		return ErrLineNotFound
	}
	if !qty.IsPositive() {
		c.Remove(key)
		return nil
	}

	if c.saleMode != model.SaleModePending && qty.GreaterThan(l.Quantity) {
		s, ok := c.stock[key.ProductID]
		if !ok {
			return ErrStockLoading
		}
		u, ok := s.Unit(key.UnitID)
		if !ok {
			return ErrUnitNotStocked
		}
		ceiling := availableIn(u, c.remainingBase(s)).Add(l.Quantity)
		if qty.GreaterThan(ceiling) {
			return &StockError{ProductName: l.ProductName, UnitName: u.Name, Available: ceiling, Requested: qty, Err: ErrInsufficientStock}
		}
	}

	l.Quantity = qty
	c.packaging.touch(key.ProductID)
	return nil
}

func (c *Cart) Remove(key Key) bool {
	for i, l := range c.lines {
		if l.Key == key {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			if !c.holds(key.ProductID) {
				c.packaging.forget(key.ProductID)
			}
			return true
		}
	}
	return false
}

func (c *Cart) holds(productID int64) bool {
	for _, l := range c.lines {
		if l.ProductID == productID {
			return true
		}
	}
	return false
}

// Clear drops every line and its packaging. Stock payloads are kept; callers
// reload them after a checkout.
func (c *Cart) Clear() {
	c.lines = nil
	c.packaging = newPackagingState()
}

func (c *Cart) find(key Key) *Line {
	for _, l := range c.lines {
		if l.Key == key {
			return l
		}
	}
	return nil
}

func (c *Cart) Line(key Key) (Line, bool) {
	if l := c.find(key); l != nil {
		return *l, true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		out[i] = *l
	}
	return out
}

func (c *Cart) Len() int      { return len(c.lines) }
func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Totals sums the lines unrounded and rounds the result to 2 decimals.
// Packaging is summed apart and only for payable statuses.
func (c *Cart) Totals() Totals {
	var t Totals
	for _, l := range c.lines {
		split := l.Tax()
		t.Subtotal = t.Subtotal.Add(split.Amount)
		t.Tax = t.Tax.Add(split.Tax)
		t.Cost = t.Cost.Add(split.Cost)
		t.Items = t.Items.Add(l.Quantity)
	}
	for _, p := range c.Packaging() {
		t.Packaging = t.Packaging.Add(p.Payable())
	}
	t.Subtotal = t.Subtotal.Round(2)
	t.Tax = t.Tax.Round(2)
	t.Cost = t.Cost.Round(2)
	t.Packaging = t.Packaging.Round(2)
	return t
}
