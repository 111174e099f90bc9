package listener

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/broker"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventProductCreated = "catalog.product.created"
	EventProductUpdated = "catalog.product.updated"
	EventProductDeleted = "catalog.product.deleted"
	EventUnitsUpdated   = "catalog.units.updated"
	EventStockChanged   = "stock.changed"
)

type Consumer interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

type CatalogListener struct {
	consumer Consumer
	uc       catalog.UseCase
	logger   logger.ZapLogger

	// onStockChanged is told which products moved so open carts can reload
	// their availability.
	onStockChanged func(productIDs []int64)
}

func NewCatalogListener(consumer Consumer, uc catalog.UseCase, logger logger.ZapLogger) *CatalogListener {
	return &CatalogListener{
		consumer: consumer,
		uc:       uc,
		logger:   logger,
	}
}

func (l *CatalogListener) OnStockChanged(fn func(productIDs []int64)) {
	l.onStockChanged = fn
}

func (l *CatalogListener) Start(ctx context.Context) {
	l.logger.Info("Starting Catalog Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Catalog Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				time.Sleep(1 * time.Second)
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type productPayload struct {
	ID int64 `json:"id"`
}

type stockPayload struct {
	ProductIDs []int64 `json:"product_ids"`
}

func (l *CatalogListener) processMessage(ctx context.Context, value []byte) {
	var event broker.Event
	if err := json.Unmarshal(value, &event); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch event.EventType {
	case EventProductCreated, EventProductUpdated, EventProductDeleted:
		var p productPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.ID == 0 {
			l.logger.Error("Malformed product event", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		l.handleProduct(ctx, event.EventType, p.ID)

	case EventUnitsUpdated:
		if err := l.uc.SyncUnits(ctx); err != nil {
			l.logger.Error("Failed to resync units", zap.Error(err))
		}

	case EventStockChanged:
		var s stockPayload
		if err := json.Unmarshal(event.Payload, &s); err != nil {
			l.logger.Error("Malformed stock event", zap.String("event_id", event.EventID), zap.Error(err))
			return
		}
		if l.onStockChanged != nil && len(s.ProductIDs) > 0 {
			l.onStockChanged(s.ProductIDs)
		}
	}
}

func (l *CatalogListener) handleProduct(ctx context.Context, eventType string, id int64) {
	if eventType == EventProductDeleted {
		if err := l.uc.RemoveProduct(ctx, id); err != nil {
			l.logger.Error("Failed to remove product", zap.Int64("product_id", id), zap.Error(err))
		}
		return
	}

	_, err := l.uc.RefreshProduct(ctx, id)
	if err != nil && !errors.Is(err, catalog.ErrProductNotFound) {
		l.logger.Error("Failed to refresh product", zap.Int64("product_id", id), zap.Error(err))
	}
}
