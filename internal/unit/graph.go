// Package unit converts quantities and prices between a product's base unit
// and the other units it is sold in.
package unit

import (
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

type edgeKey struct {
	from, to int64
}

// Graph holds the active conversion edges and the unit table. Lookups are
// direct only: an edge or its inverse, never a chain of edges.
type Graph struct {
	edges map[edgeKey]decimal.Decimal
	units map[int64]model.Unit
	order []int64
}

func NewGraph(units []model.Unit, conversions []model.UnitConversion) *Graph {
	g := &Graph{
		edges: make(map[edgeKey]decimal.Decimal, len(conversions)),
		units: make(map[int64]model.Unit, len(units)),
		order: make([]int64, 0, len(units)),
	}
	for _, u := range units {
		if _, dup := g.units[u.ID]; dup {
			continue
		}
		g.units[u.ID] = u
		g.order = append(g.order, u.ID)
	}
	for _, c := range conversions {
		if !c.IsActive || !c.ConversionFactor.IsPositive() {
			continue
		}
		k := edgeKey{c.FromUnit.ID, c.ToUnit.ID}
		if _, dup := g.edges[k]; dup {
			continue
		}
		g.edges[k] = c.ConversionFactor
	}
	return g
}

// Factor returns f such that 1 from = f to. The second result is false when
// no edge joins the two units; callers keep the unconverted value then.
func (g *Graph) Factor(from, to int64) (decimal.Decimal, bool) {
	if from == to {
		return one, true
	}
	if g == nil {
		return decimal.Zero, false
	}
	if f, ok := g.edges[edgeKey{from, to}]; ok {
		return f, true
	}
	if f, ok := g.edges[edgeKey{to, from}]; ok {
		return one.Div(f), true
	}
	return decimal.Zero, false
}

// Connected reports whether a direct edge joins a and b in either direction.
func (g *Graph) Connected(a, b int64) bool {
	if a == b || g == nil {
		return false
	}
	_, fwd := g.edges[edgeKey{a, b}]
	_, inv := g.edges[edgeKey{b, a}]
	return fwd || inv
}

func (g *Graph) Unit(id int64) (model.Unit, bool) {
	if g == nil {
		return model.Unit{}, false
	}
	u, ok := g.units[id]
	return u, ok
}

// Units returns the active units in the order they were loaded.
func (g *Graph) Units() []model.Unit {
	if g == nil {
		return nil
	}
	out := make([]model.Unit, 0, len(g.order))
	for _, id := range g.order {
		if u := g.units[id]; u.IsActive {
			out = append(out, u)
		}
	}
	return out
}

// Ref fills in name, symbol and base flag for ref from the unit table.
func (g *Graph) Ref(ref model.UnitRef) model.UnitRef {
	u, ok := g.Unit(ref.ID)
	if !ok {
		return ref
	}
	if ref.Name == "" {
		ref.Name = u.Name
	}
	if ref.Symbol == "" {
		ref.Symbol = u.Symbol
	}
	ref.IsBaseUnit = ref.IsBaseUnit || u.IsBaseUnit
	return ref
}
