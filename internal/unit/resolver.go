package unit

import "github.com/fekuna/omnipos-pos-client/internal/model"

// AvailableUnits lists the units a product can be shown or sold in: the
// base unit first, then every active compatible unit with a direct edge to
// or from the base unit, in stored order. A product without a base unit has
// no convertible units.
func AvailableUnits(g *Graph, p *model.Product) []model.UnitRef {
	if !p.BaseUnit.Valid() {
		return nil
	}
	base := g.Ref(p.BaseUnit)
	base.IsBaseUnit = true
	out := []model.UnitRef{base}
	seen := map[int64]bool{base.ID: true}

	for _, cu := range p.CompatibleUnits {
		if !cu.IsActive || seen[cu.Unit.ID] {
			continue
		}
		if !g.Connected(cu.Unit.ID, base.ID) {
			continue
		}
		seen[cu.Unit.ID] = true
		out = append(out, g.Ref(cu.Unit))
	}
	return out
}

// AddableUnits lists the units that could still be attached to the product
// as compatible units.
func AddableUnits(g *Graph, p *model.Product) []model.Unit {
	if !p.BaseUnit.Valid() {
		return nil
	}
	taken := map[int64]bool{p.BaseUnit.ID: true}
	for _, cu := range p.CompatibleUnits {
		taken[cu.Unit.ID] = true
	}

	var out []model.Unit
	for _, u := range g.Units() {
		if taken[u.ID] {
			continue
		}
		if g.Connected(u.ID, p.BaseUnit.ID) {
			out = append(out, u)
		}
	}
	return out
}
