package unit

import (
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

const (
	piece  int64 = 1
	carton int64 = 2
	pack   int64 = 3
	crate  int64 = 4
	liter  int64 = 5
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func testUnits() []model.Unit {
	return []model.Unit{
		{ID: piece, Name: "Piece", Symbol: "pc", IsBaseUnit: true, IsActive: true},
		{ID: carton, Name: "Carton", Symbol: "ctn", IsActive: true},
		{ID: pack, Name: "Pack", Symbol: "pk", IsActive: true},
		{ID: crate, Name: "Crate", Symbol: "cr", IsActive: true},
		{ID: liter, Name: "Liter", Symbol: "L", IsBaseUnit: true, IsActive: true},
	}
}

func testConversions() []model.UnitConversion {
	return []model.UnitConversion{
		// 1 carton = 20 pieces
		{ID: 1, FromUnit: model.UnitRef{ID: carton}, ToUnit: model.UnitRef{ID: piece}, ConversionFactor: d("20"), IsActive: true},
		// stored base -> display: 1 piece = 1/6 pack
		{ID: 2, FromUnit: model.UnitRef{ID: piece}, ToUnit: model.UnitRef{ID: pack}, ConversionFactor: d("0.1666666666666667"), IsActive: true},
		// inactive edges are ignored
		{ID: 3, FromUnit: model.UnitRef{ID: crate}, ToUnit: model.UnitRef{ID: piece}, ConversionFactor: d("24"), IsActive: false},
	}
}

func testGraph() *Graph { return NewGraph(testUnits(), testConversions()) }

func testProduct() *model.Product {
	return &model.Product{
		ID:            10,
		Name:          "Sparkling Water 50cl",
		Price:         d("1000"),
		CostPrice:     d("700"),
		StockQuantity: d("100"),
		BaseUnit:      model.UnitRef{ID: piece},
		CompatibleUnits: []model.CompatibleUnit{
			{ID: 100, Unit: model.UnitRef{ID: piece}, IsActive: true},
			{ID: 101, Unit: model.UnitRef{ID: carton}, IsActive: true},
			{ID: 102, Unit: model.UnitRef{ID: crate}, IsActive: true},
			{ID: 103, Unit: model.UnitRef{ID: pack}, IsActive: true},
		},
	}
}
