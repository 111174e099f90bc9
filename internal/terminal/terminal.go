// Package terminal is the point-of-sale screen state: the product search,
// the per-product unit choices, the cart with its stock payloads and the
// checkout that empties it.
package terminal

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/fekuna/omnipos-pos-client/internal/search"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultDebounce = 500 * time.Millisecond

type StockAPI interface {
	StockAvailability(ctx context.Context, productID int64) (*model.StockAvailability, error)
	BulkStockAvailability(ctx context.Context, productIDs []int64) (map[int64]*model.StockAvailability, error)
}

// ProductView is a product as offered on the sale screen.
type ProductView struct {
	Product  *model.Product  `json:"product"`
	Units    []model.UnitRef `json:"units"`
	Selected model.UnitRef   `json:"selected"`
	// Availability is nil until the product's stock has been loaded.
	Availability []cart.UnitAvailability `json:"availability"`
}

type CartView struct {
	SaleMode           model.SaleMode       `json:"sale_mode"`
	PriceMode          model.PriceMode      `json:"price_mode"`
	Lines              []cart.Line          `json:"lines"`
	Packaging          []cart.PackagingLine `json:"packaging"`
	Totals             cart.Totals          `json:"totals"`
	Total              decimal.Decimal      `json:"total"`
	TotalWithPackaging decimal.Decimal      `json:"total_with_packaging"`
}

type SearchResult = search.Result[[]model.Product]

// Terminal serializes every operation on its cart. Debounced search results
// arrive on a timer goroutine and are kept until the next query replaces
// them.
type Terminal struct {
	catalog catalog.UseCase
	stock   StockAPI
	sales   sale.UseCase
	logger  logger.ZapLogger

	mu        sync.Mutex
	graph     *unit.Graph
	cart      *cart.Cart
	selection *unit.Selection

	debouncer *search.Debouncer[[]model.Product]
	resultsMu sync.RWMutex
	results   SearchResult
	onResults func(SearchResult)
}

func New(cat catalog.UseCase, stock StockAPI, sales sale.UseCase, debounce time.Duration, log logger.ZapLogger) *Terminal {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	t := &Terminal{
		catalog:   cat,
		stock:     stock,
		sales:     sales,
		logger:    log,
		cart:      cart.New(nil),
		selection: unit.NewSelection(),
	}
	t.debouncer = search.NewDebouncer[[]model.Product](debounce, cat.Search, t.deliver)
	return t
}

// OnResults registers fn to run with every delivered search result.
func (t *Terminal) OnResults(fn func(SearchResult)) {
	t.resultsMu.Lock()
	t.onResults = fn
	t.resultsMu.Unlock()
}

func (t *Terminal) deliver(r SearchResult) {
	t.resultsMu.Lock()
	t.results = r
	fn := t.onResults
	t.resultsMu.Unlock()
	if r.Err != nil {
		t.logger.Warn("Product search failed", zap.String("query", r.Query), zap.Error(r.Err))
	}
	if fn != nil {
		fn(r)
	}
}

// Type feeds one keystroke's worth of query to the debounced search.
func (t *Terminal) Type(query string) { t.debouncer.Type(query) }

func (t *Terminal) Results() SearchResult {
	t.resultsMu.RLock()
	defer t.resultsMu.RUnlock()
	return t.results
}

// Search runs query straight away, bypassing the debounce.
func (t *Terminal) Search(ctx context.Context, query string) ([]model.Product, error) {
	return t.catalog.Search(ctx, query)
}

// Close stops the pending search.
func (t *Terminal) Close() { t.debouncer.Stop() }

// syncGraphLocked picks up a rebuilt conversion graph after a unit resync.
func (t *Terminal) syncGraphLocked(ctx context.Context) error {
	g, err := t.catalog.Graph(ctx)
	if err != nil {
		return fmt.Errorf("failed to load unit graph: %w", err)
	}
	if g != t.graph {
		t.graph = g
		t.cart.SetConverter(unit.NewConverter(g))
	}
	return nil
}

func (t *Terminal) loadStockLocked(ctx context.Context, productID int64) error {
	s, err := t.stock.StockAvailability(ctx, productID)
	if err != nil {
		return fmt.Errorf("failed to load stock availability: %w", err)
	}
	t.cart.LoadStock(*s)
	return nil
}

// Product opens a product on the sale screen and loads its stock if the cart
// has none for it yet.
func (t *Terminal) Product(ctx context.Context, id int64) (*ProductView, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.syncGraphLocked(ctx); err != nil {
		return nil, err
	}
	p, err := t.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.cart.HasStock(id) {
		if err := t.loadStockLocked(ctx, id); err != nil {
			t.logger.Warn("Stock not loaded", zap.Int64("product_id", id), zap.Error(err))
		}
	}
	return t.viewLocked(p), nil
}

func (t *Terminal) viewLocked(p *model.Product) *ProductView {
	v := &ProductView{
		Product: p,
		Units:   unit.AvailableUnits(t.graph, p),
	}
	v.Selected, _ = t.selection.Resolve(t.graph, p)
	v.Availability, _ = t.cart.Availability(p.ID)
	return v
}

// SelectUnit makes unitID the unit productID is shown and added in.
func (t *Terminal) SelectUnit(productID, unitID int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selection.Select(productID, unitID)
}

// Add puts qty of a product in the cart at price mode. A zero unitID means
// the unit currently selected for the product, an empty mode the cart's
// current price mode.
func (t *Terminal) Add(ctx context.Context, productID, unitID int64, mode model.PriceMode, qty decimal.Decimal) (cart.Line, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.syncGraphLocked(ctx); err != nil {
		return cart.Line{}, err
	}
	p, err := t.catalog.GetProduct(ctx, productID)
	if err != nil {
		return cart.Line{}, err
	}
	if unitID == 0 {
		ref, ok := t.selection.Resolve(t.graph, p)
		if !ok {
			return cart.Line{}, cart.ErrUnitNotStocked
		}
		unitID = ref.ID
	}
	if !t.cart.HasStock(productID) && t.cart.SaleMode() != model.SaleModePending {
		if err := t.loadStockLocked(ctx, productID); err != nil {
			return cart.Line{}, err
		}
	}
	if mode == "" {
		mode = t.cart.PriceMode()
	}
	return t.cart.AddWithMode(p, unitID, mode, qty)
}

// keyLocked fills an empty price mode with the cart's current one.
func (t *Terminal) keyLocked(key cart.Key) cart.Key {
	if key.PriceMode == "" {
		key.PriceMode = t.cart.PriceMode()
	}
	return key
}

func (t *Terminal) SetQuantity(key cart.Key, qty decimal.Decimal) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cart.SetQuantity(t.keyLocked(key), qty)
}

func (t *Terminal) Remove(key cart.Key) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cart.Remove(t.keyLocked(key))
}

func (t *Terminal) SetPackagingStatus(productID int64, status model.PackagingStatus) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cart.SetPackagingStatus(productID, status)
}

func (t *Terminal) RemovePackaging(productID int64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cart.RemovePackaging(productID)
}

func (t *Terminal) SetSaleMode(m model.SaleMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.SetSaleMode(m)
}

func (t *Terminal) SetPriceMode(m model.PriceMode) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.SetPriceMode(m)
}

func (t *Terminal) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cart.Clear()
	t.selection.Clear()
}

func (t *Terminal) Cart() CartView {
	t.mu.Lock()
	defer t.mu.Unlock()
	totals := t.cart.Totals()
	return CartView{
		SaleMode:           t.cart.SaleMode(),
		PriceMode:          t.cart.PriceMode(),
		Lines:              t.cart.Lines(),
		Packaging:          t.cart.Packaging(),
		Totals:             totals,
		Total:              totals.Total(),
		TotalWithPackaging: totals.TotalWithPackaging(),
	}
}

// Checkout submits the cart. Once the sale exists the price mode goes back
// to standard and the stock of the sold products is reloaded, whether or not
// completion succeeded.
func (t *Terminal) Checkout(ctx context.Context, in sale.CheckoutInput) (*model.Sale, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ids := t.productIDsLocked()
	s, err := t.sales.Checkout(ctx, t.cart, in)
	if s != nil {
		t.cart.SetPriceMode(model.PriceModeStandard)
		t.reloadLocked(ctx, ids)
	}
	return s, err
}

func (t *Terminal) productIDsLocked() []int64 {
	seen := make(map[int64]bool)
	var ids []int64
	for _, l := range t.cart.Lines() {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	return ids
}

// ReloadStock refreshes the availability of the given products among those
// the cart already tracks. Others are fetched when next opened.
func (t *Terminal) ReloadStock(ctx context.Context, productIDs []int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reloadLocked(ctx, productIDs)
}

func (t *Terminal) reloadLocked(ctx context.Context, productIDs []int64) {
	var tracked []int64
	for _, id := range productIDs {
		if t.cart.HasStock(id) {
			tracked = append(tracked, id)
		}
	}
	if len(tracked) == 0 {
		return
	}

	fresh, err := t.stock.BulkStockAvailability(ctx, tracked)
	if err != nil {
		t.logger.Warn("Failed to reload stock", zap.Int64s("product_ids", tracked), zap.Error(err))
		return
	}
	for _, id := range tracked {
		if s, ok := fresh[id]; ok {
			t.cart.LoadStock(*s)
		} else {
			t.cart.ForgetStock(id)
		}
	}
}
