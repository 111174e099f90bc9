package unit

import "github.com/shopspring/decimal"

// Converter moves values between a base unit and a display unit. Every
// method returns the input unchanged with converted=false when the graph has
// no edge between the two units.
//
// With f = Factor(display, base), the number of base units in one display
// unit:
//
//	quantity: display = base / f    base = display * f
//	price:    display = base * f    base = display / f
type Converter struct {
	graph *Graph
}

func NewConverter(g *Graph) *Converter {
	return &Converter{graph: g}
}

func (c *Converter) Graph() *Graph { return c.graph }

func (c *Converter) perDisplay(display, base int64) (decimal.Decimal, bool) {
	f, ok := c.graph.Factor(display, base)
	if !ok || !f.IsPositive() {
		return decimal.Zero, false
	}
	return f, true
}

func (c *Converter) QuantityFromBase(qty decimal.Decimal, base, display int64) (decimal.Decimal, bool) {
	f, ok := c.perDisplay(display, base)
	if !ok {
		return qty, false
	}
	return qty.Div(f), true
}

func (c *Converter) PriceFromBase(price decimal.Decimal, base, display int64) (decimal.Decimal, bool) {
	f, ok := c.perDisplay(display, base)
	if !ok {
		return price, false
	}
	return price.Mul(f), true
}

func (c *Converter) QuantityToBase(qty decimal.Decimal, display, base int64) (decimal.Decimal, bool) {
	f, ok := c.perDisplay(display, base)
	if !ok {
		return qty, false
	}
	return qty.Mul(f), true
}

func (c *Converter) PriceToBase(price decimal.Decimal, display, base int64) (decimal.Decimal, bool) {
	f, ok := c.perDisplay(display, base)
	if !ok {
		return price, false
	}
	return price.Div(f), true
}
