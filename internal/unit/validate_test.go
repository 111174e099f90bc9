package unit

import (
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

func codes(fs []Finding) map[FindingCode]bool {
	out := map[FindingCode]bool{}
	for _, f := range fs {
		out[f.Code] = true
	}
	return out
}

func conv(from, to int64, factor string) model.UnitConversion {
	return model.UnitConversion{FromUnit: model.UnitRef{ID: from}, ToUnit: model.UnitRef{ID: to}, ConversionFactor: d(factor), IsActive: true}
}

func TestValidateConversion(t *testing.T) {
	existing := testConversions()[:2]
	tests := []struct {
		name      string
		candidate model.UnitConversion
		want      []FindingCode
	}{
		{"clean edge", conv(crate, piece, "24"), nil},
		{"no base side", conv(crate, carton, "2"), []FindingCode{FindingNoBaseSide}},
		{"self", conv(piece, piece, "1"), []FindingCode{FindingSelfConversion}},
		{"zero factor", conv(crate, piece, "0"), []FindingCode{FindingBadFactor}},
		{"duplicate", conv(carton, piece, "12"), []FindingCode{FindingDuplicate}},
		{"circular", conv(piece, carton, "0.05"), []FindingCode{FindingCircular}},
		{"second base edge", conv(carton, liter, "10"), []FindingCode{FindingSecondBaseEdge}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := codes(ValidateConversion(tt.candidate, existing, testUnits()))
			if len(got) != len(tt.want) {
				t.Fatalf("findings = %v, want %v", got, tt.want)
			}
			for _, c := range tt.want {
				if !got[c] {
					t.Errorf("missing finding %s in %v", c, got)
				}
			}
		})
	}
}

func TestValidateConversionIgnoresItself(t *testing.T) {
	existing := testConversions()[:2]
	edit := existing[0]
	edit.ConversionFactor = d("24")
	if fs := ValidateConversion(edit, existing, testUnits()); len(fs) != 0 {
		t.Fatalf("editing an edge flagged itself: %+v", fs)
	}
}
