package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Unit struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Symbol      string `db:"symbol" json:"symbol"`
	Description string `db:"description" json:"description"`
	IsBaseUnit  bool   `db:"is_base_unit" json:"is_base_unit"`
	IsActive    bool   `db:"is_active" json:"is_active"`
}

func (u *Unit) UnmarshalJSON(b []byte) error {
	type alias Unit
	a := alias{IsActive: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*u = Unit(a)
	return nil
}

func (u Unit) Ref() UnitRef {
	return UnitRef{ID: u.ID, Name: u.Name, Symbol: u.Symbol, IsBaseUnit: u.IsBaseUnit}
}

// UnitRef is the single unit reference shape used past the API boundary.
// The zero value means "no unit".
type UnitRef struct {
	ID         int64  `json:"id"`
	Name       string `json:"name,omitempty"`
	Symbol     string `json:"symbol,omitempty"`
	IsBaseUnit bool   `json:"is_base_unit,omitempty"`
}

func (r UnitRef) Valid() bool { return r.ID != 0 }

func (r *UnitRef) UnmarshalJSON(b []byte) error {
	id, obj, err := decodeRef(b)
	if err != nil {
		return err
	}
	ref := UnitRef{ID: id}
	if obj != nil {
		var full struct {
			Name       string `json:"name"`
			Symbol     string `json:"symbol"`
			IsBaseUnit bool   `json:"is_base_unit"`
		}
		if err := json.Unmarshal(obj, &full); err != nil {
			return err
		}
		ref.Name, ref.Symbol, ref.IsBaseUnit = full.Name, full.Symbol, full.IsBaseUnit
	}
	*r = ref
	return nil
}

// UnitConversion states that 1 FromUnit equals ConversionFactor ToUnit.
type UnitConversion struct {
	ID               int64           `json:"id"`
	FromUnit         UnitRef         `json:"from_unit"`
	ToUnit           UnitRef         `json:"to_unit"`
	ConversionFactor decimal.Decimal `json:"conversion_factor"`
	Description      string          `json:"description"`
	IsActive         bool            `json:"is_active"`
}

func (c *UnitConversion) UnmarshalJSON(b []byte) error {
	type alias UnitConversion
	a := alias{IsActive: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var flat struct {
		FromUnitName   string `json:"from_unit_name"`
		FromUnitSymbol string `json:"from_unit_symbol"`
		ToUnitName     string `json:"to_unit_name"`
		ToUnitSymbol   string `json:"to_unit_symbol"`
	}
	if err := json.Unmarshal(b, &flat); err == nil {
		if a.FromUnit.Name == "" {
			a.FromUnit.Name, a.FromUnit.Symbol = flat.FromUnitName, flat.FromUnitSymbol
		}
		if a.ToUnit.Name == "" {
			a.ToUnit.Name, a.ToUnit.Symbol = flat.ToUnitName, flat.ToUnitSymbol
		}
	}
	*c = UnitConversion(a)
	return nil
}

// CompatibleUnit links a product to a unit it may be sold or bought in.
type CompatibleUnit struct {
	ID             int64               `json:"id"`
	Unit           UnitRef             `json:"unit"`
	IsDefault      bool                `json:"is_default"`
	IsActive       bool                `json:"is_active"`
	StandardPrice  decimal.NullDecimal `json:"standard_price"`
	WholesalePrice decimal.NullDecimal `json:"wholesale_price"`
}

func (c *CompatibleUnit) UnmarshalJSON(b []byte) error {
	type alias CompatibleUnit
	a := alias{IsActive: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	var flat struct {
		UnitID     FlexID `json:"unit_id"`
		UnitName   string `json:"unit_name"`
		UnitSymbol string `json:"unit_symbol"`
	}
	if err := json.Unmarshal(b, &flat); err == nil {
		if !a.Unit.Valid() {
			a.Unit.ID = int64(flat.UnitID)
		}
		if a.Unit.Name == "" {
			a.Unit.Name, a.Unit.Symbol = flat.UnitName, flat.UnitSymbol
		}
	}
	*c = CompatibleUnit(a)
	return nil
}
