package unit

import (
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

func TestDefaultUnitPriority(t *testing.T) {
	g := testGraph()
	tests := []struct {
		name  string
		units []model.CompatibleUnit
		want  int64
	}{
		{
			name: "explicit default wins regardless of order",
			units: []model.CompatibleUnit{
				{Unit: model.UnitRef{ID: carton}, IsActive: true},
				{Unit: model.UnitRef{ID: piece}, IsDefault: true, IsActive: true},
			},
			want: piece,
		},
		{
			name: "explicit default on a non-base unit",
			units: []model.CompatibleUnit{
				{Unit: model.UnitRef{ID: piece}, IsActive: true},
				{Unit: model.UnitRef{ID: carton}, IsDefault: true, IsActive: true},
			},
			want: carton,
		},
		{
			name: "base unit flag when nothing is default",
			units: []model.CompatibleUnit{
				{Unit: model.UnitRef{ID: carton}, IsActive: true},
				{Unit: model.UnitRef{ID: piece}, IsActive: true},
			},
			want: piece,
		},
		{
			name: "first entry otherwise",
			units: []model.CompatibleUnit{
				{Unit: model.UnitRef{ID: pack}, IsActive: true},
				{Unit: model.UnitRef{ID: carton}, IsActive: true},
			},
			want: pack,
		},
		{
			name: "inactive default is skipped",
			units: []model.CompatibleUnit{
				{Unit: model.UnitRef{ID: carton}, IsDefault: true},
				{Unit: model.UnitRef{ID: pack}, IsActive: true},
			},
			want: pack,
		},
		{
			name:  "falls back to product base unit",
			units: nil,
			want:  piece,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testProduct()
			p.CompatibleUnits = tt.units
			got, ok := DefaultUnit(g, p)
			if !ok || got.ID != tt.want {
				t.Errorf("DefaultUnit = %+v, %v; want %d", got, ok, tt.want)
			}
		})
	}
}

func TestSelectionOverridesDefault(t *testing.T) {
	g := testGraph()
	p := testProduct()
	s := NewSelection()

	if got, _ := s.Resolve(g, p); got.ID != piece {
		t.Fatalf("initial selection = %d, want piece", got.ID)
	}

	s.Select(p.ID, carton)
	if got, _ := s.Resolve(g, p); got.ID != carton {
		t.Fatalf("after override = %d, want carton", got.ID)
	}

	s.Select(p.ID, crate)
	if got, _ := s.Resolve(g, p); got.ID != piece {
		t.Fatalf("unofferable override = %d, want default piece", got.ID)
	}

	s.Select(p.ID, carton)
	s.Reset(p.ID)
	if got, _ := s.Resolve(g, p); got.ID != piece {
		t.Fatalf("after reset = %d, want piece", got.ID)
	}
}
