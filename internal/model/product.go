package model

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Description string `db:"description" json:"description"`
	IsSellable  bool   `db:"is_sellable" json:"is_sellable"`
}

type TaxClass struct {
	ID          int64           `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	TaxRate     decimal.Decimal `db:"tax_rate" json:"tax_rate"`
	Description string          `db:"description" json:"description"`
	IsActive    bool            `db:"is_active" json:"is_active"`
}

// UnmarshalJSON accepts a bare id as well as the full object.
func (t *TaxClass) UnmarshalJSON(b []byte) error {
	id, obj, err := decodeRef(b)
	if err != nil {
		return err
	}
	if obj == nil {
		*t = TaxClass{ID: id}
		return nil
	}
	type alias TaxClass
	a := alias{IsActive: true}
	if err := json.Unmarshal(obj, &a); err != nil {
		return err
	}
	*t = TaxClass(a)
	return nil
}

// Product carries every quantity and price in base-unit terms.
type Product struct {
	ID              int64               `json:"id"`
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	SKU             string              `json:"sku"`
	CategoryID      FlexID              `json:"category"`
	CategoryName    string              `json:"category_name"`
	TaxClass        *TaxClass           `json:"tax_class"`
	Price           decimal.Decimal     `json:"price"`
	CostPrice       decimal.Decimal     `json:"cost_price"`
	WholesalePrice  decimal.NullDecimal `json:"wholesale_price"`
	StockQuantity   decimal.Decimal     `json:"stock_quantity"`
	MinStockLevel   decimal.Decimal     `json:"min_stock_level"`
	MaxStockLevel   decimal.Decimal     `json:"max_stock_level"`
	BaseUnit        UnitRef             `json:"base_unit"`
	CompatibleUnits []CompatibleUnit    `json:"compatible_units"`
	HasPackaging    bool                `json:"has_packaging"`
	PackagingPrice  decimal.NullDecimal `json:"packaging_price"`
	IsActive        bool                `json:"is_active"`
}

func (p *Product) UnmarshalJSON(b []byte) error {
	type alias Product
	a := alias{IsActive: true}
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*p = Product(a)
	return nil
}

// TaxRate is the percentage rate of the product's tax class, if any.
func (p *Product) TaxRate() decimal.NullDecimal {
	if p.TaxClass == nil || !p.TaxClass.TaxRate.IsPositive() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(p.TaxClass.TaxRate)
}

// Packaging is the deposit charged per base unit of the product's returnable
// packaging. The second result is false when the product has none.
func (p *Product) Packaging() (decimal.Decimal, bool) {
	if !p.HasPackaging || !p.PackagingPrice.Valid || !p.PackagingPrice.Decimal.IsPositive() {
		return decimal.Zero, false
	}
	return p.PackagingPrice.Decimal, true
}

// CompatibleUnit returns the compatible entry for unitID.
func (p *Product) CompatibleUnit(unitID int64) (CompatibleUnit, bool) {
	for _, cu := range p.CompatibleUnits {
		if cu.Unit.ID == unitID {
			return cu, true
		}
	}
	return CompatibleUnit{}, false
}

// UnitStock is the availability of one sellable unit. ConversionFactor is
// the number of base units contained in one of this unit.
type UnitStock struct {
	ID                int64               `json:"id"`
	Name              string              `json:"name"`
	Symbol            string              `json:"symbol"`
	Price             decimal.NullDecimal `json:"price"`
	IsBaseUnit        bool                `json:"is_base_unit"`
	ConversionFactor  decimal.Decimal     `json:"conversion_factor"`
	AvailableQuantity decimal.Decimal     `json:"available_quantity"`
	IsAvailable       bool                `json:"is_available"`
}

type StockAvailability struct {
	ProductID      int64       `json:"product_id"`
	ProductName    string      `json:"product_name"`
	BaseUnit       UnitRef     `json:"base_unit"`
	AvailableUnits []UnitStock `json:"available_units"`
}

// BaseStock is the stock in base units as reported by the base unit entry.
func (s *StockAvailability) BaseStock() (decimal.Decimal, bool) {
	for _, u := range s.AvailableUnits {
		if u.IsBaseUnit {
			return u.AvailableQuantity, true
		}
	}
	return decimal.Zero, false
}

func (s *StockAvailability) Unit(unitID int64) (UnitStock, bool) {
	for _, u := range s.AvailableUnits {
		if u.ID == unitID {
			return u, true
		}
	}
	return UnitStock{}, false
}
