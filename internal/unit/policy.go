package unit

import "github.com/fekuna/omnipos-pos-client/internal/model"

// DefaultUnit picks the unit a product is first shown in: the compatible
// entry flagged default, else the entry whose unit is a base unit, else the
// first entry. With no active compatible entries it falls back to the
// product's base unit.
func DefaultUnit(g *Graph, p *model.Product) (model.UnitRef, bool) {
	var active []model.CompatibleUnit
	for _, cu := range p.CompatibleUnits {
		if cu.IsActive && cu.Unit.Valid() {
			active = append(active, cu)
		}
	}

	for _, cu := range active {
		if cu.IsDefault {
			return g.Ref(cu.Unit), true
		}
	}
	for _, cu := range active {
		if ref := g.Ref(cu.Unit); ref.IsBaseUnit {
			return ref, true
		}
	}
	if len(active) > 0 {
		return g.Ref(active[0].Unit), true
	}
	if p.BaseUnit.Valid() {
		ref := g.Ref(p.BaseUnit)
		ref.IsBaseUnit = true
		return ref, true
	}
	return model.UnitRef{}, false
}

// Selection keeps explicit per-product unit choices. A choice wins over the
// computed default until it is reset or stops being offerable.
// Not safe for concurrent use.
type Selection struct {
	chosen map[int64]int64
}

func NewSelection() *Selection {
	return &Selection{chosen: make(map[int64]int64)}
}

func (s *Selection) Select(productID, unitID int64) {
	s.chosen[productID] = unitID
}

func (s *Selection) Reset(productID int64) {
	delete(s.chosen, productID)
}

func (s *Selection) Clear() {
	s.chosen = make(map[int64]int64)
}

func (s *Selection) Resolve(g *Graph, p *model.Product) (model.UnitRef, bool) {
	if id, ok := s.chosen[p.ID]; ok {
		for _, ref := range AvailableUnits(g, p) {
			if ref.ID == id {
				return ref, true
			}
		}
	}
	return DefaultUnit(g, p)
}
