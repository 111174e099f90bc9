package purchase

import (
	"context"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

type UseCase interface {
	// NewOrder starts an order whose unit costs follow the current
	// conversion graph.
	NewOrder(ctx context.Context, supplierID int64) (*Order, error)
	Submit(ctx context.Context, order *Order) (*model.PurchaseOrder, error)

	Suppliers(ctx context.Context) ([]model.Supplier, error)
	Orders(ctx context.Context, status string) ([]model.PurchaseOrder, error)
	Deliveries(ctx context.Context, orderID int64) ([]model.Delivery, error)
	ConfirmDelivery(ctx context.Context, deliveryID int64) error
}
