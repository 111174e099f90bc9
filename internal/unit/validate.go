package unit

import (
	"fmt"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

type FindingCode string

const (
	FindingNoBaseSide     FindingCode = "no_base_side"
	FindingSelfConversion FindingCode = "self_conversion"
	FindingBadFactor      FindingCode = "bad_factor"
	FindingDuplicate      FindingCode = "duplicate"
	FindingCircular       FindingCode = "circular"
	FindingSecondBaseEdge FindingCode = "second_base_edge"
)

type Finding struct {
	Code    FindingCode
	Message string
}

// ValidateConversion checks a candidate edge against the existing ones and
// returns warnings. The backend stays authoritative; nothing here blocks a
// save.
func ValidateConversion(candidate model.UnitConversion, existing []model.UnitConversion, units []model.Unit) []Finding {
	byID := make(map[int64]model.Unit, len(units))
	for _, u := range units {
		byID[u.ID] = u
	}
	isBase := func(id int64) bool { return byID[id].IsBaseUnit }
	name := func(id int64) string {
		if u, ok := byID[id]; ok {
			return u.Name
		}
		return fmt.Sprintf("unit #%d", id)
	}

	from, to := candidate.FromUnit.ID, candidate.ToUnit.ID
	var out []Finding

	if from == to {
		out = append(out, Finding{FindingSelfConversion, "a unit cannot be converted to itself"})
	}
	if !candidate.ConversionFactor.IsPositive() {
		out = append(out, Finding{FindingBadFactor, "conversion factor must be greater than zero"})
	}
	if !isBase(from) && !isBase(to) {
		out = append(out, Finding{FindingNoBaseSide, fmt.Sprintf("neither %s nor %s is a base unit", name(from), name(to))})
	}

	nonBase := int64(0)
	switch {
	case isBase(from) && !isBase(to):
		nonBase = to
	case isBase(to) && !isBase(from):
		nonBase = from
	}

	for _, e := range existing {
		if e.ID != 0 && e.ID == candidate.ID {
			continue
		}
		ef, et := e.FromUnit.ID, e.ToUnit.ID
		switch {
		case ef == from && et == to:
			out = append(out, Finding{FindingDuplicate, fmt.Sprintf("a conversion from %s to %s already exists", name(from), name(to))})
		case ef == to && et == from:
			out = append(out, Finding{FindingCircular, fmt.Sprintf("a conversion from %s to %s already exists", name(to), name(from))})
		case nonBase != 0 && (ef == nonBase && isBase(et) || et == nonBase && isBase(ef)):
			out = append(out, Finding{FindingSecondBaseEdge, fmt.Sprintf("%s is already converted to a base unit", name(nonBase))})
		}
	}
	return out
}
