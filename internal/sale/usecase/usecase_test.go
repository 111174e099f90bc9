package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fakeBackend struct {
	createErr   error
	completeErr error
	created     []backend.CreateSaleInput
	completed   []int64
	payments    []decimal.Decimal
}

func (f *fakeBackend) CreateSale(ctx context.Context, in backend.CreateSaleInput) (*model.Sale, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, in)
	return &model.Sale{ID: 31, SaleNumber: "SALE-0031", Status: model.SaleStatusPending, TotalAmount: d("3000")}, nil
}

func (f *fakeBackend) CompleteSale(ctx context.Context, id int64) (*model.Sale, error) {
	if f.completeErr != nil {
		return nil, f.completeErr
	}
	f.completed = append(f.completed, id)
	return &model.Sale{ID: id, SaleNumber: "SALE-0031", Status: model.SaleStatusCompleted}, nil
}

func (f *fakeBackend) CancelSale(ctx context.Context, id int64) (*model.Sale, error) {
	return &model.Sale{ID: id, Status: model.SaleStatusCancelled}, nil
}

func (f *fakeBackend) MakePayment(ctx context.Context, id int64, amount decimal.Decimal, full bool) (*model.Sale, error) {
	f.payments = append(f.payments, amount)
	return &model.Sale{ID: id}, nil
}

func (f *fakeBackend) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	return &model.Sale{ID: id}, nil
}

func (f *fakeBackend) PendingSales(ctx context.Context) ([]model.Sale, error) { return nil, nil }

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
	done   chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, key, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	if len(p.events) == 2 {
		close(p.done)
	}
	return nil
}

func stockedCart(t *testing.T) *cart.Cart {
	t.Helper()
	c := cart.New(nil)
	c.LoadStock(model.StockAvailability{
		ProductID: 1,
		AvailableUnits: []model.UnitStock{
			{ID: 1, Name: "Bottle", IsBaseUnit: true, ConversionFactor: d("1"), AvailableQuantity: d("10"), Price: decimal.NewNullDecimal(d("1500"))},
		},
	})
	p := &model.Product{ID: 1, Name: "Cola", Price: d("1500"), BaseUnit: model.UnitRef{ID: 1}}
	if _, err := c.Add(p, 1, d("2")); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCheckoutCompletes(t *testing.T) {
	api := &fakeBackend{}
	pub := &recordingPublisher{done: make(chan struct{})}
	uc := NewSaleUseCase(api, pub, logger.NewNop())
	c := stockedCart(t)

	s, err := uc.Checkout(context.Background(), c, sale.CheckoutInput{PaymentMethod: model.PaymentCard})
	if err != nil {
		t.Fatalf("Checkout: %v", err)
	}
	if s.Status != model.SaleStatusCompleted || len(api.completed) != 1 {
		t.Errorf("sale = %+v, completed = %v", s, api.completed)
	}
	if !c.IsEmpty() {
		t.Error("cart not cleared")
	}

	in := api.created[0]
	if in.SaleType != "sale" || in.PaymentMethod != model.PaymentCard || !in.PaidAmount.Equal(d("3000")) {
		t.Errorf("create input = %+v", in)
	}
	if len(in.Items) != 1 || in.Items[0].Product != 1 || in.Items[0].Unit != 1 || !in.Items[0].UnitPrice.Equal(d("1500")) || in.Items[0].PriceMode != model.PriceModeStandard {
		t.Errorf("items = %+v", in.Items)
	}

	select {
	case <-pub.done:
	case <-time.After(time.Second):
		t.Fatal("events not published")
	}
	if pub.events[0] != EventSaleCompleted || pub.events[1] != EventStockChanged {
		t.Errorf("events = %v", pub.events)
	}
}

func TestCheckoutCompletionFailureClearsCart(t *testing.T) {
	cause := &backend.APIError{StatusCode: 400, Message: "Insufficient stock"}
	api := &fakeBackend{completeErr: cause}
	uc := NewSaleUseCase(api, nil, logger.NewNop())
	c := stockedCart(t)

	s, err := uc.Checkout(context.Background(), c, sale.CheckoutInput{})
	var ce *sale.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("err = %v, want CompletionError", err)
	}
	if ce.Sale.ID != 31 || s == nil || s.ID != 31 {
		t.Errorf("created sale not reported: %+v / %+v", ce.Sale, s)
	}
	if backend.StatusCode(err) != 400 {
		t.Error("completion error does not unwrap to the backend rejection")
	}
	if !c.IsEmpty() {
		t.Error("cart kept after the sale was created")
	}
}

func TestCheckoutCreationFailureKeepsCart(t *testing.T) {
	api := &fakeBackend{createErr: errors.New("connection refused")}
	uc := NewSaleUseCase(api, nil, logger.NewNop())
	c := stockedCart(t)

	_, err := uc.Checkout(context.Background(), c, sale.CheckoutInput{})
	var ce *sale.CompletionError
	if err == nil || errors.As(err, &ce) {
		t.Fatalf("err = %v, want a plain creation error", err)
	}
	if c.Len() != 1 {
		t.Error("cart changed by a failed creation")
	}
}

func TestCheckoutPendingOnlyCreates(t *testing.T) {
	api := &fakeBackend{}
	uc := NewSaleUseCase(api, nil, logger.NewNop())
	c := stockedCart(t)
	c.SetSaleMode(model.SaleModePending)

	s, err := uc.Checkout(context.Background(), c, sale.CheckoutInput{CustomerName: "Hery"})
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != model.SaleStatusPending || len(api.completed) != 0 {
		t.Errorf("pending sale completed: %+v", s)
	}
	if !c.IsEmpty() {
		t.Error("cart not cleared")
	}
}

func TestCheckoutValidationSendsNothing(t *testing.T) {
	api := &fakeBackend{}
	uc := NewSaleUseCase(api, nil, logger.NewNop())

	_, err := uc.Checkout(context.Background(), cart.New(nil), sale.CheckoutInput{})
	if !errors.Is(err, sale.ErrEmptyCart) || len(api.created) != 0 {
		t.Errorf("err = %v, created = %d", err, len(api.created))
	}
}

func TestPay(t *testing.T) {
	api := &fakeBackend{}
	uc := NewSaleUseCase(api, nil, logger.NewNop())
	ctx := context.Background()

	if _, err := uc.Pay(ctx, 31, d("0"), false); !errors.Is(err, sale.ErrInvalidPayment) {
		t.Errorf("zero partial payment err = %v", err)
	}
	if _, err := uc.Pay(ctx, 31, d("999.999"), false); err != nil {
		t.Fatal(err)
	}
	if !api.payments[0].Equal(d("1000")) {
		t.Errorf("payment sent = %s", api.payments[0])
	}
}

func TestCheckoutSendsPackaging(t *testing.T) {
	api := &fakeBackend{}
	uc := NewSaleUseCase(api, nil, logger.NewNop())
	c := cart.New(nil)
	c.LoadStock(model.StockAvailability{
		ProductID: 2,
		AvailableUnits: []model.UnitStock{
			{ID: 1, Name: "Bottle", IsBaseUnit: true, ConversionFactor: d("1"), AvailableQuantity: d("24")},
			{ID: 5, Name: "Crate", ConversionFactor: d("12"), Price: decimal.NewNullDecimal(d("30000"))},
		},
	})
	beer := &model.Product{
		ID: 2, Name: "Beer 65cl", Price: d("2500"), BaseUnit: model.UnitRef{ID: 1},
		HasPackaging: true, PackagingPrice: decimal.NewNullDecimal(d("300")),
	}
	if _, err := c.Add(beer, 5, d("1")); err != nil {
		t.Fatal(err)
	}
	if err := c.SetPackagingStatus(2, model.PackagingDue); err != nil {
		t.Fatal(err)
	}

	if _, err := uc.Checkout(context.Background(), c, sale.CheckoutInput{CustomerName: "Hery", CustomerPhone: "034"}); err != nil {
		t.Fatal(err)
	}
	items := api.created[0].PackagingItems
	if len(items) != 1 {
		t.Fatalf("packaging items = %+v", items)
	}
	it := items[0]
	if it.Product != 2 || it.Unit != 1 || !it.Quantity.Equal(d("12")) || !it.UnitPrice.Equal(d("300")) {
		t.Errorf("item = %+v", it)
	}
	if it.Status != model.PackagingDue || it.CustomerName != "Hery" || it.CustomerPhone != "034" {
		t.Errorf("item status/customer = %s %q %q", it.Status, it.CustomerName, it.CustomerPhone)
	}
}
