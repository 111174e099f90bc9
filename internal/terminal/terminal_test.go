package terminal

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

const (
	piece  int64 = 1
	carton int64 = 2
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeCatalog struct {
	mu       sync.Mutex
	products map[int64]model.Product
	graph    *unit.Graph
	searches []string
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		products: map[int64]model.Product{
			10: {
				ID: 10, Name: "Mineral Water 1.5L", Price: d("1000"), IsActive: true,
				WholesalePrice: decimal.NewNullDecimal(d("800")),
				BaseUnit:       model.UnitRef{ID: piece, Name: "Piece"},
				CompatibleUnits: []model.CompatibleUnit{
					{Unit: model.UnitRef{ID: piece}, IsActive: true},
					{Unit: model.UnitRef{ID: carton}, IsActive: true, IsDefault: true},
				},
			},
			20: {
				ID: 20, Name: "Beer 65cl", Price: d("1000"), IsActive: true,
				HasPackaging: true, PackagingPrice: decimal.NewNullDecimal(d("300")),
				BaseUnit: model.UnitRef{ID: piece, Name: "Piece"},
				CompatibleUnits: []model.CompatibleUnit{
					{Unit: model.UnitRef{ID: piece}, IsActive: true},
					{Unit: model.UnitRef{ID: carton}, IsActive: true},
				},
			},
		},
		graph: unit.NewGraph(
			[]model.Unit{
				{ID: piece, Name: "Piece", IsBaseUnit: true, IsActive: true},
				{ID: carton, Name: "Carton", IsActive: true},
			},
			[]model.UnitConversion{
				{ID: 1, FromUnit: model.UnitRef{ID: carton}, ToUnit: model.UnitRef{ID: piece}, ConversionFactor: d("20"), IsActive: true},
			},
		),
	}
}

func (f *fakeCatalog) Sync(ctx context.Context) error      { return nil }
func (f *fakeCatalog) SyncUnits(ctx context.Context) error { return nil }
func (f *fakeCatalog) RefreshProduct(ctx context.Context, id int64) (*model.Product, error) {
	return f.GetProduct(ctx, id)
}
func (f *fakeCatalog) RemoveProduct(ctx context.Context, id int64) error { return nil }

func (f *fakeCatalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, catalog.ErrProductNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeCatalog) Search(ctx context.Context, q string) ([]model.Product, error) {
	f.mu.Lock()
	f.searches = append(f.searches, q)
	f.mu.Unlock()
	var out []model.Product
	for _, p := range f.products {
		if strings.Contains(strings.ToLower(p.Name), strings.ToLower(q)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) Graph(ctx context.Context) (*unit.Graph, error) { return f.graph, nil }

type fakeStock struct {
	base      string
	loads     int
	bulkCalls [][]int64
	bulkErr   error
	// omit lists products the bulk endpoint leaves out of its answer.
	omit map[int64]bool
}

func (f *fakeStock) availability(id int64) *model.StockAvailability {
	return &model.StockAvailability{
		ProductID: id,
		AvailableUnits: []model.UnitStock{
			{ID: piece, Name: "Piece", IsBaseUnit: true, ConversionFactor: d("1"), AvailableQuantity: d(f.base), Price: decimal.NewNullDecimal(d("1000"))},
			{ID: carton, Name: "Carton", ConversionFactor: d("20"), Price: decimal.NewNullDecimal(d("20000"))},
		},
	}
}

func (f *fakeStock) StockAvailability(ctx context.Context, id int64) (*model.StockAvailability, error) {
	f.loads++
	return f.availability(id), nil
}

func (f *fakeStock) BulkStockAvailability(ctx context.Context, ids []int64) (map[int64]*model.StockAvailability, error) {
	f.bulkCalls = append(f.bulkCalls, ids)
	if f.bulkErr != nil {
		return nil, f.bulkErr
	}
	out := make(map[int64]*model.StockAvailability)
	for _, id := range ids {
		if !f.omit[id] {
			out[id] = f.availability(id)
		}
	}
	return out, nil
}

type fakeSales struct {
	sale.UseCase
	err error
}

func (f *fakeSales) Checkout(ctx context.Context, c *cart.Cart, in sale.CheckoutInput) (*model.Sale, error) {
	if f.err != nil {
		return nil, f.err
	}
	s := &model.Sale{ID: 1, SaleNumber: "S-1", TotalAmount: c.Totals().Total()}
	c.Clear()
	return s, nil
}

func newTerminal(t *testing.T) (*Terminal, *fakeCatalog, *fakeStock, *fakeSales) {
	t.Helper()
	cat := newFakeCatalog()
	stock := &fakeStock{base: "100"}
	sales := &fakeSales{}
	term := New(cat, stock, sales, 20*time.Millisecond, logger.NewNop())
	t.Cleanup(term.Close)
	return term, cat, stock, sales
}

func TestProductLoadsStockOnce(t *testing.T) {
	term, _, stock, _ := newTerminal(t)
	ctx := context.Background()

	v, err := term.Product(ctx, 10)
	if err != nil {
		t.Fatalf("Product: %v", err)
	}
	if v.Selected.ID != carton {
		t.Errorf("selected unit = %d, want the default carton", v.Selected.ID)
	}
	if len(v.Units) != 2 || v.Units[0].ID != piece {
		t.Errorf("units = %+v, want base unit first", v.Units)
	}
	if len(v.Availability) != 2 || !v.Availability[1].Available.Equal(d("5")) {
		t.Errorf("availability = %+v", v.Availability)
	}

	if _, err := term.Product(ctx, 10); err != nil {
		t.Fatal(err)
	}
	if stock.loads != 1 {
		t.Errorf("stock loaded %d times, want 1", stock.loads)
	}

	if _, err := term.Product(ctx, 99); !errors.Is(err, catalog.ErrProductNotFound) {
		t.Errorf("unknown product err = %v", err)
	}
}

func TestAddUsesSelectedUnit(t *testing.T) {
	term, _, _, _ := newTerminal(t)
	ctx := context.Background()

	line, err := term.Add(ctx, 10, 0, "", d("2"))
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if line.UnitID != carton || !line.UnitPrice.Equal(d("20000")) {
		t.Errorf("line = unit %d @ %s", line.UnitID, line.UnitPrice)
	}

	term.SelectUnit(10, piece)
	if line, err = term.Add(ctx, 10, 0, "", d("5")); err != nil || line.UnitID != piece {
		t.Fatalf("Add after select = %+v, %v", line, err)
	}

	if _, err := term.Add(ctx, 10, carton, "", d("4")); !errors.Is(err, cart.ErrInsufficientStock) {
		t.Errorf("over-add err = %v, want ErrInsufficientStock", err)
	}

	view := term.Cart()
	if len(view.Lines) != 2 || !view.Total.Equal(d("45000")) {
		t.Errorf("cart = %d lines, total %s", len(view.Lines), view.Total)
	}
}

func TestCheckoutReloadsSoldStock(t *testing.T) {
	term, _, stock, sales := newTerminal(t)
	ctx := context.Background()
	if _, err := term.Add(ctx, 10, piece, "", d("3")); err != nil {
		t.Fatal(err)
	}

	sales.err = errors.New("backend down")
	if _, err := term.Checkout(ctx, sale.CheckoutInput{}); err == nil {
		t.Fatal("expected checkout error")
	}
	if len(stock.bulkCalls) != 0 || len(term.Cart().Lines) != 1 {
		t.Fatal("failed checkout touched stock or cart")
	}

	sales.err = nil
	s, err := term.Checkout(ctx, sale.CheckoutInput{})
	if err != nil || s.SaleNumber != "S-1" {
		t.Fatalf("Checkout = %+v, %v", s, err)
	}
	if len(stock.bulkCalls) != 1 || stock.bulkCalls[0][0] != 10 {
		t.Errorf("bulk reloads = %v", stock.bulkCalls)
	}
	if len(term.Cart().Lines) != 0 {
		t.Error("cart not cleared")
	}
}

func TestReloadStockOnlyTracked(t *testing.T) {
	term, _, stock, _ := newTerminal(t)
	ctx := context.Background()

	term.ReloadStock(ctx, []int64{10, 11})
	if len(stock.bulkCalls) != 0 {
		t.Fatalf("reloaded untracked products: %v", stock.bulkCalls)
	}

	if _, err := term.Product(ctx, 10); err != nil {
		t.Fatal(err)
	}
	stock.base = "40"
	term.ReloadStock(ctx, []int64{10, 11})
	if len(stock.bulkCalls) != 1 || len(stock.bulkCalls[0]) != 1 {
		t.Fatalf("bulk reloads = %v", stock.bulkCalls)
	}
	v, _ := term.Product(ctx, 10)
	if !v.Availability[0].Available.Equal(d("40")) {
		t.Errorf("available pieces = %s, want 40", v.Availability[0].Available)
	}
}

func TestTypeDebouncesSearch(t *testing.T) {
	term, cat, _, _ := newTerminal(t)
	got := make(chan SearchResult, 4)
	term.OnResults(func(r SearchResult) { got <- r })

	for _, q := range []string{"w", "wa", "wat", "water"} {
		term.Type(q)
	}

	select {
	case r := <-got:
		if r.Query != "water" || len(r.Value) != 1 {
			t.Errorf("result = %+v", r)
		}
	case <-time.After(time.Second):
		t.Fatal("no search result delivered")
	}
	select {
	case r := <-got:
		t.Errorf("extra result delivered: %+v", r)
	case <-time.After(60 * time.Millisecond):
	}

	cat.mu.Lock()
	defer cat.mu.Unlock()
	if len(cat.searches) != 1 {
		t.Errorf("searches = %v, want one", cat.searches)
	}
	if term.Results().Query != "water" {
		t.Errorf("stored result query = %q", term.Results().Query)
	}
}

func TestAddPriceModePerLine(t *testing.T) {
	term, _, _, _ := newTerminal(t)
	ctx := context.Background()

	whl, err := term.Add(ctx, 10, piece, model.PriceModeWholesale, d("4"))
	if err != nil {
		t.Fatalf("Add wholesale: %v", err)
	}
	if whl.PriceMode != model.PriceModeWholesale || !whl.UnitPrice.Equal(d("800")) {
		t.Errorf("wholesale line = %s @ %s, want wholesale @ 800", whl.PriceMode, whl.UnitPrice)
	}
	std, err := term.Add(ctx, 10, piece, "", d("1"))
	if err != nil {
		t.Fatal(err)
	}
	if std.PriceMode != model.PriceModeStandard || !std.UnitPrice.Equal(d("1000")) {
		t.Errorf("default line = %s @ %s", std.PriceMode, std.UnitPrice)
	}
	if view := term.Cart(); view.PriceMode != model.PriceModeStandard || len(view.Lines) != 2 {
		t.Fatalf("cart = %s with %d lines", view.PriceMode, len(view.Lines))
	}

	if err := term.SetQuantity(whl.Key, d("6")); err != nil {
		t.Fatalf("SetQuantity on wholesale line: %v", err)
	}
	if view := term.Cart(); !view.Total.Equal(d("5800")) {
		t.Errorf("total = %s, want 6x800 + 1000", view.Total)
	}

	// an empty mode means the cart's mode, so only the standard line matches
	if !term.Remove(cart.Key{ProductID: 10, UnitID: piece}) {
		t.Fatal("Remove with empty mode missed the standard line")
	}
	if !term.Remove(whl.Key) || len(term.Cart().Lines) != 0 {
		t.Fatal("wholesale line not removed")
	}
}

func TestCartModeAppliesToAdds(t *testing.T) {
	term, _, _, _ := newTerminal(t)
	ctx := context.Background()
	term.SetPriceMode(model.PriceModeWholesale)

	l, err := term.Add(ctx, 10, piece, "", d("2"))
	if err != nil {
		t.Fatal(err)
	}
	if l.PriceMode != model.PriceModeWholesale {
		t.Errorf("line mode = %s, want the cart's wholesale", l.PriceMode)
	}
	if err := term.SetQuantity(cart.Key{ProductID: 10, UnitID: piece}, d("1")); err != nil {
		t.Errorf("SetQuantity with empty mode: %v", err)
	}
}

func TestCheckoutResetsPriceMode(t *testing.T) {
	term, _, _, sales := newTerminal(t)
	ctx := context.Background()
	term.SetPriceMode(model.PriceModeWholesale)
	if _, err := term.Add(ctx, 10, piece, "", d("2")); err != nil {
		t.Fatal(err)
	}

	sales.err = errors.New("backend down")
	term.Checkout(ctx, sale.CheckoutInput{})
	if term.Cart().PriceMode != model.PriceModeWholesale {
		t.Fatal("failed checkout reset the price mode")
	}

	sales.err = nil
	if _, err := term.Checkout(ctx, sale.CheckoutInput{}); err != nil {
		t.Fatal(err)
	}
	if got := term.Cart().PriceMode; got != model.PriceModeStandard {
		t.Errorf("price mode after sale = %s, want standard", got)
	}
}

func TestReloadOmittedProductStillAllowsDecrease(t *testing.T) {
	term, _, stock, _ := newTerminal(t)
	ctx := context.Background()
	l, err := term.Add(ctx, 10, piece, "", d("3"))
	if err != nil {
		t.Fatal(err)
	}

	stock.omit = map[int64]bool{10: true}
	term.ReloadStock(ctx, []int64{10})

	if err := term.SetQuantity(l.Key, d("2")); err != nil {
		t.Fatalf("decrease after omitted reload: %v", err)
	}
	if err := term.SetQuantity(l.Key, d("5")); !errors.Is(err, cart.ErrStockLoading) {
		t.Errorf("increase err = %v, want ErrStockLoading", err)
	}
}

func TestCartViewCarriesPackaging(t *testing.T) {
	term, _, _, _ := newTerminal(t)
	ctx := context.Background()
	if _, err := term.Add(ctx, 20, carton, "", d("1")); err != nil {
		t.Fatal(err)
	}
	if _, err := term.Add(ctx, 10, piece, "", d("1")); err != nil {
		t.Fatal(err)
	}

	view := term.Cart()
	if len(view.Packaging) != 1 || view.Packaging[0].ProductID != 20 || !view.Packaging[0].Quantity.Equal(d("20")) {
		t.Fatalf("packaging = %+v, want 20 beer bottles", view.Packaging)
	}
	if !view.Total.Equal(d("21000")) || !view.TotalWithPackaging.Equal(d("27000")) {
		t.Errorf("total %s, with packaging %s", view.Total, view.TotalWithPackaging)
	}

	if err := term.SetPackagingStatus(20, model.PackagingExchange); err != nil {
		t.Fatal(err)
	}
	if view := term.Cart(); !view.TotalWithPackaging.Equal(d("21000")) {
		t.Errorf("exchanged packaging still charged: %s", view.TotalWithPackaging)
	}
	if err := term.SetPackagingStatus(10, model.PackagingDue); !errors.Is(err, cart.ErrNoPackaging) {
		t.Errorf("water packaging err = %v", err)
	}
	if !term.RemovePackaging(20) || len(term.Cart().Packaging) != 0 {
		t.Error("RemovePackaging failed")
	}
}
