package printserver

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	invUC "github.com/fekuna/omnipos-pos-client/internal/inventory/usecase"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	purUC "github.com/fekuna/omnipos-pos-client/internal/purchase/usecase"
)

type fakeBackoffice struct {
	fakeStock
	updated   map[string]any
	order     backend.CreatePurchaseOrderInput
	confirmed int64
}

func (f *fakeBackoffice) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	return nil, nil
}

func (f *fakeBackoffice) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*model.Product, error) {
	f.updated = fields
	p := cola
	return &p, nil
}

func (f *fakeBackoffice) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return []model.Supplier{{ID: 3, Name: "Star Brasseries"}}, nil
}

func (f *fakeBackoffice) PurchaseOrders(ctx context.Context, q url.Values) ([]model.PurchaseOrder, error) {
	return nil, nil
}

func (f *fakeBackoffice) CreatePurchaseOrder(ctx context.Context, in backend.CreatePurchaseOrderInput) (*model.PurchaseOrder, error) {
	f.order = in
	return &model.PurchaseOrder{ID: 5, OrderNumber: "PO-5"}, nil
}

func (f *fakeBackoffice) Deliveries(ctx context.Context, q url.Values) ([]model.Delivery, error) {
	return nil, nil
}

func (f *fakeBackoffice) ConfirmDelivery(ctx context.Context, id int64) error {
	f.confirmed = id
	return nil
}

func newBackofficeServer(t *testing.T) (*Server, *fakeBackoffice) {
	t.Helper()
	s := newTestServer(t)
	api := &fakeBackoffice{}
	s.deps.Catalog = fakeCatalog{}
	s.deps.Inventory = invUC.NewInventoryUseCase(api, fakeCatalog{}, nil, logger.NewNop())
	s.deps.Purchases = purUC.NewPurchaseUseCase(api, fakeCatalog{}, logger.NewNop())
	s.engine = s.routes()
	return s, api
}

func TestInventoryRoutes(t *testing.T) {
	s, api := newBackofficeServer(t)

	if w := do(s, http.MethodGet, "/inventory?status=sold_out", ""); w.Code != http.StatusBadRequest {
		t.Errorf("bad status filter = %d", w.Code)
	}
	if w := do(s, http.MethodGet, "/inventory", ""); w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Cola 33cl") {
		t.Errorf("list = %d %s", w.Code, w.Body)
	}
	if w := do(s, http.MethodGet, "/inventory/1", ""); w.Code != http.StatusOK {
		t.Errorf("availability = %d %s", w.Code, w.Body)
	}

	w := do(s, http.MethodPatch, "/inventory/1", `{"values":{"stock_quantity":"12","price":"1600"}}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit = %d %s", w.Code, w.Body)
	}
	if got := api.updated["stock_quantity"]; got != int64(12) {
		t.Errorf("stock_quantity sent = %v", got)
	}

	w = do(s, http.MethodPatch, "/inventory/1", `{"values":{"price":"-1"}}`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("negative price = %d", w.Code)
	}
}

func TestPurchaseRoutes(t *testing.T) {
	s, api := newBackofficeServer(t)

	if w := do(s, http.MethodGet, "/purchases/suppliers", ""); !strings.Contains(w.Body.String(), "Star Brasseries") {
		t.Errorf("suppliers = %d %s", w.Code, w.Body)
	}

	w := do(s, http.MethodPost, "/purchases/orders", `{"supplier_id":3,"items":[{"product_id":1,"quantity":"10","unit_cost":"900"}]}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create order = %d %s", w.Code, w.Body)
	}
	if len(api.order.Items) != 1 || !api.order.Items[0].UnitCost.Equal(d("900")) || api.order.Items[0].Unit != 1 {
		t.Errorf("order sent = %+v", api.order)
	}

	if w := do(s, http.MethodPost, "/purchases/orders", `{"items":[{"product_id":1,"quantity":"1"}]}`); w.Code != http.StatusBadRequest {
		t.Errorf("order without supplier = %d", w.Code)
	}

	if w := do(s, http.MethodPost, "/purchases/deliveries/9/confirm", ""); w.Code != http.StatusNoContent || api.confirmed != 9 {
		t.Errorf("confirm = %d, confirmed %d", w.Code, api.confirmed)
	}
}
