package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/inventory"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeCatalog struct {
	products  []model.Product
	graph     *unit.Graph
	refreshed []int64
}

func (f *fakeCatalog) Sync(ctx context.Context) error      { return nil }
func (f *fakeCatalog) SyncUnits(ctx context.Context) error { return nil }
func (f *fakeCatalog) RefreshProduct(ctx context.Context, id int64) (*model.Product, error) {
	f.refreshed = append(f.refreshed, id)
	return nil, nil
}
func (f *fakeCatalog) RemoveProduct(ctx context.Context, id int64) error { return nil }
func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	for i := range f.products {
		if f.products[i].ID == id {
			p := f.products[i]
			return &p, nil
		}
	}
	return nil, nil
}
func (f *fakeCatalog) ListProducts(ctx context.Context, _ *dto.ProductFilters) ([]model.Product, int, error) {
	return f.products, len(f.products), nil
}
func (f *fakeCatalog) Search(ctx context.Context, q string) ([]model.Product, error) { return nil, nil }
func (f *fakeCatalog) Graph(ctx context.Context) (*unit.Graph, error)                { return f.graph, nil }

type fakeBackend struct {
	updates []map[string]any
}

func (f *fakeBackend) StockAvailability(ctx context.Context, id int64) (*model.StockAvailability, error) {
	return &model.StockAvailability{ProductID: id}, nil
}
func (f *fakeBackend) LowStockProducts(ctx context.Context) ([]model.Product, error) { return nil, nil }
func (f *fakeBackend) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*model.Product, error) {
	f.updates = append(f.updates, fields)
	return &model.Product{ID: id}, nil
}

func fixture() (*fakeCatalog, *fakeBackend) {
	units := []model.Unit{
		{ID: 1, Name: "Bottle", IsBaseUnit: true, IsActive: true},
		{ID: 2, Name: "Crate", IsActive: true},
	}
	conversions := []model.UnitConversion{
		{ID: 1, FromUnit: model.UnitRef{ID: 2}, ToUnit: model.UnitRef{ID: 1}, ConversionFactor: d("24"), IsActive: true},
	}
	cat := &fakeCatalog{
		graph: unit.NewGraph(units, conversions),
		products: []model.Product{
			{
				ID: 5, Name: "Soda", Price: d("1500"), StockQuantity: d("48"), MinStockLevel: d("24"),
				BaseUnit: model.UnitRef{ID: 1},
				CompatibleUnits: []model.CompatibleUnit{
					{ID: 1, Unit: model.UnitRef{ID: 1}, IsActive: true},
					{ID: 2, Unit: model.UnitRef{ID: 2}, IsActive: true, IsDefault: true},
				},
			},
			{ID: 6, Name: "Juice", StockQuantity: d("0"), BaseUnit: model.UnitRef{ID: 1}},
		},
	}
	return cat, &fakeBackend{}
}

func TestOpenFormUsesDefaultUnit(t *testing.T) {
	cat, api := fixture()
	uc := NewInventoryUseCase(api, cat, nil, logger.NewNop())

	form, err := uc.OpenForm(context.Background(), 5, model.UnitRef{})
	if err != nil {
		t.Fatal(err)
	}
	if form.Unit().ID != 2 {
		t.Fatalf("display unit = %+v, want crate", form.Unit())
	}
	if v, _ := form.Value(inventory.FieldStock); !v.Equal(d("2")) {
		t.Errorf("stock = %s crates, want 2", v)
	}
}

func TestSaveFormSendsOnlyWhenDirty(t *testing.T) {
	cat, api := fixture()
	uc := NewInventoryUseCase(api, cat, nil, logger.NewNop())
	ctx := context.Background()

	form, _ := uc.OpenForm(ctx, 5, model.UnitRef{})
	if _, err := uc.SaveForm(ctx, form); err != nil {
		t.Fatal(err)
	}
	if len(api.updates) != 0 {
		t.Fatal("clean form was sent")
	}

	if err := form.Edit(inventory.FieldStock, d("3")); err != nil {
		t.Fatal(err)
	}
	if _, err := uc.SaveForm(ctx, form); err != nil {
		t.Fatal(err)
	}
	if len(api.updates) != 1 || api.updates[0]["stock_quantity"] != int64(72) {
		t.Fatalf("updates = %v", api.updates)
	}
	if len(cat.refreshed) != 1 {
		t.Error("snapshot not refreshed after save")
	}
}

func TestListByStatus(t *testing.T) {
	cat, api := fixture()
	uc := NewInventoryUseCase(api, cat, nil, logger.NewNop())

	out, err := uc.ListByStatus(context.Background(), inventory.StatusOut)
	if err != nil || len(out) != 1 || out[0].ID != 6 {
		t.Errorf("out of stock = %+v, %v", out, err)
	}
}
