package listener

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/broker"
	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/segmentio/kafka-go"
)

type chanConsumer struct {
	msgs chan kafka.Message
}

func (c *chanConsumer) ReadMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-c.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

type recordingCatalog struct {
	mu        sync.Mutex
	refreshed []int64
	removed   []int64
	unitSyncs int
}

func (r *recordingCatalog) Sync(ctx context.Context) error { return nil }

func (r *recordingCatalog) SyncUnits(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unitSyncs++
	return nil
}

func (r *recordingCatalog) RefreshProduct(ctx context.Context, id int64) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshed = append(r.refreshed, id)
	return &model.Product{ID: id}, nil
}

func (r *recordingCatalog) RemoveProduct(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, id)
	return nil
}

func (r *recordingCatalog) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	return nil, nil
}

func (r *recordingCatalog) ListProducts(ctx context.Context, f *dto.ProductFilters) ([]model.Product, int, error) {
	return nil, 0, nil
}

func (r *recordingCatalog) Search(ctx context.Context, q string) ([]model.Product, error) {
	return nil, nil
}

func (r *recordingCatalog) Graph(ctx context.Context) (*unit.Graph, error) { return nil, nil }

func message(t *testing.T, eventType string, payload any) kafka.Message {
	t.Helper()
	ev, err := broker.NewEvent(eventType, payload)
	if err != nil {
		t.Fatal(err)
	}
	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatal(err)
	}
	return kafka.Message{Value: b}
}

func TestProcessMessageRoutesEvents(t *testing.T) {
	uc := &recordingCatalog{}
	l := NewCatalogListener(nil, uc, logger.NewNop())
	var stock []int64
	l.OnStockChanged(func(ids []int64) { stock = append(stock, ids...) })
	ctx := context.Background()

	l.processMessage(ctx, message(t, EventProductCreated, map[string]any{"id": 7}).Value)
	l.processMessage(ctx, message(t, EventProductUpdated, map[string]any{"id": 8}).Value)
	l.processMessage(ctx, message(t, EventProductDeleted, map[string]any{"id": 9}).Value)
	l.processMessage(ctx, message(t, EventUnitsUpdated, nil).Value)
	l.processMessage(ctx, message(t, EventStockChanged, map[string]any{"product_ids": []int64{7, 8}}).Value)
	l.processMessage(ctx, message(t, "sale.completed", map[string]any{"id": 1}).Value)
	l.processMessage(ctx, []byte("not json"))
	l.processMessage(ctx, message(t, EventProductUpdated, map[string]any{}).Value)

	if len(uc.refreshed) != 2 || uc.refreshed[0] != 7 || uc.refreshed[1] != 8 {
		t.Errorf("refreshed = %v", uc.refreshed)
	}
	if len(uc.removed) != 1 || uc.removed[0] != 9 {
		t.Errorf("removed = %v", uc.removed)
	}
	if uc.unitSyncs != 1 {
		t.Errorf("unit syncs = %d", uc.unitSyncs)
	}
	if len(stock) != 2 {
		t.Errorf("stock callback got %v", stock)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	consumer := &chanConsumer{msgs: make(chan kafka.Message, 1)}
	uc := &recordingCatalog{}
	l := NewCatalogListener(consumer, uc, logger.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Start(ctx)
		close(done)
	}()

	consumer.msgs <- message(t, EventProductUpdated, map[string]any{"id": 3})
	deadline := time.After(time.Second)
	for {
		uc.mu.Lock()
		n := len(uc.refreshed)
		uc.mu.Unlock()
		if n == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("message not processed")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}
