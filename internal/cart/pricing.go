package cart

import (
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

// WholesaleUnitPrice scales a standard unit price by the ratio between the
// product's wholesale and standard base prices, rounded to 2 decimals. A
// non-positive standard base leaves the standard price untouched.
func WholesaleUnitPrice(standardUnit, standardBase, wholesaleBase decimal.Decimal) decimal.Decimal {
	if !standardBase.IsPositive() {
		return standardUnit
	}
	p := standardUnit.Mul(wholesaleBase).Div(standardBase).Round(2)
	if p.IsNegative() {
		return standardUnit
	}
	return p
}

// StandardUnitPrice resolves the standard price of one unitID of p. The
// order is the unit's own price, then the price the stock endpoint computed,
// then the base price scaled through the conversion graph.
func StandardUnitPrice(p *model.Product, unitID int64, stock *model.UnitStock, conv *unit.Converter) decimal.Decimal {
	if cu, ok := p.CompatibleUnit(unitID); ok && cu.StandardPrice.Valid {
		return cu.StandardPrice.Decimal
	}
	if stock != nil && stock.Price.Valid && stock.Price.Decimal.IsPositive() {
		return stock.Price.Decimal
	}
	if unitID == p.BaseUnit.ID || conv == nil {
		return p.Price
	}
	price, _ := conv.PriceFromBase(p.Price, p.BaseUnit.ID, unitID)
	return unit.RoundPrice(price)
}

// UnitPrice resolves the price of one unitID of p in the given mode.
func UnitPrice(p *model.Product, unitID int64, stock *model.UnitStock, conv *unit.Converter, mode model.PriceMode) decimal.Decimal {
	standard := StandardUnitPrice(p, unitID, stock, conv)
	if mode != model.PriceModeWholesale {
		return standard
	}
	if cu, ok := p.CompatibleUnit(unitID); ok && cu.WholesalePrice.Valid {
		return cu.WholesalePrice.Decimal
	}
	if !p.WholesalePrice.Valid {
		return standard
	}
	return WholesaleUnitPrice(standard, p.Price, p.WholesalePrice.Decimal)
}
