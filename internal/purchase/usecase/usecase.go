package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/purchase"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"go.uber.org/zap"
)

type Backend interface {
	Suppliers(ctx context.Context) ([]model.Supplier, error)
	PurchaseOrders(ctx context.Context, query url.Values) ([]model.PurchaseOrder, error)
	CreatePurchaseOrder(ctx context.Context, in backend.CreatePurchaseOrderInput) (*model.PurchaseOrder, error)
	Deliveries(ctx context.Context, query url.Values) ([]model.Delivery, error)
	ConfirmDelivery(ctx context.Context, deliveryID int64) error
}

// GraphSource is where new orders get their conversion graph.
type GraphSource interface {
	Graph(ctx context.Context) (*unit.Graph, error)
}

type purchaseUseCase struct {
	api    Backend
	graphs GraphSource
	logger logger.ZapLogger
}

func NewPurchaseUseCase(api Backend, graphs GraphSource, log logger.ZapLogger) purchase.UseCase {
	return &purchaseUseCase{api: api, graphs: graphs, logger: log}
}

func (uc *purchaseUseCase) NewOrder(ctx context.Context, supplierID int64) (*purchase.Order, error) {
	g, err := uc.graphs.Graph(ctx)
	if err != nil {
		return nil, err
	}
	return purchase.NewOrder(unit.NewConverter(g), supplierID), nil
}

func (uc *purchaseUseCase) Submit(ctx context.Context, order *purchase.Order) (*model.PurchaseOrder, error) {
	in, err := order.Input()
	if err != nil {
		return nil, err
	}
	po, err := uc.api.CreatePurchaseOrder(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}
	uc.logger.Info("purchase order created",
		zap.Int64("purchase_order_id", po.ID),
		zap.String("order_number", po.OrderNumber),
		zap.String("total", order.Total().StringFixed(2)),
	)
	return po, nil
}

func (uc *purchaseUseCase) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return uc.api.Suppliers(ctx)
}

func (uc *purchaseUseCase) Orders(ctx context.Context, status string) ([]model.PurchaseOrder, error) {
	var q url.Values
	if status != "" {
		q = url.Values{"status": {status}}
	}
	return uc.api.PurchaseOrders(ctx, q)
}

func (uc *purchaseUseCase) Deliveries(ctx context.Context, orderID int64) ([]model.Delivery, error) {
	var q url.Values
	if orderID != 0 {
		q = url.Values{"purchase_order": {strconv.FormatInt(orderID, 10)}}
	}
	return uc.api.Deliveries(ctx, q)
}

// ConfirmDelivery records reception of a delivery; the backend adds its
// stock.
func (uc *purchaseUseCase) ConfirmDelivery(ctx context.Context, deliveryID int64) error {
	if err := uc.api.ConfirmDelivery(ctx, deliveryID); err != nil {
		return fmt.Errorf("failed to confirm delivery %d: %w", deliveryID, err)
	}
	uc.logger.Info("delivery confirmed", zap.Int64("delivery_id", deliveryID))
	return nil
}
