package unit

import (
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

func ids(refs []model.UnitRef) []int64 {
	out := make([]int64, len(refs))
	for i, r := range refs {
		out[i] = r.ID
	}
	return out
}

func TestAvailableUnitsBaseFirst(t *testing.T) {
	got := AvailableUnits(testGraph(), testProduct())

	want := []int64{piece, carton, pack}
	if len(got) != len(want) {
		t.Fatalf("AvailableUnits = %v, want %v", ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("AvailableUnits = %v, want %v", ids(got), want)
		}
	}
	if !got[0].IsBaseUnit || got[0].Name != "Piece" {
		t.Errorf("first unit = %+v, want named base unit", got[0])
	}
}

func TestAvailableUnitsAlwaysStartsWithBase(t *testing.T) {
	p := testProduct()
	p.CompatibleUnits = nil
	got := AvailableUnits(testGraph(), p)
	if len(got) != 1 || got[0].ID != piece {
		t.Fatalf("AvailableUnits = %v, want [piece]", ids(got))
	}
}

func TestAvailableUnitsWithoutBase(t *testing.T) {
	p := testProduct()
	p.BaseUnit = model.UnitRef{}
	if got := AvailableUnits(testGraph(), p); len(got) != 0 {
		t.Fatalf("AvailableUnits = %v, want none", ids(got))
	}
}

func TestAddableUnits(t *testing.T) {
	p := testProduct()
	p.CompatibleUnits = []model.CompatibleUnit{{Unit: model.UnitRef{ID: carton}, IsActive: true}}

	got := AddableUnits(testGraph(), p)
	if len(got) != 1 || got[0].ID != pack {
		t.Fatalf("AddableUnits = %+v, want [pack]", got)
	}
}
