package backend

import (
	"context"
	"net/url"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

func (c *Client) Suppliers(ctx context.Context) ([]model.Supplier, error) {
	return ListAll[model.Supplier](ctx, c, "/purchases/suppliers/", nil)
}

func (c *Client) PurchaseOrders(ctx context.Context, query url.Values) ([]model.PurchaseOrder, error) {
	return ListAll[model.PurchaseOrder](ctx, c, "/purchases/purchase-orders/", query)
}

type PurchaseOrderItemInput struct {
	Product         int64           `json:"product"`
	Unit            int64           `json:"unit"`
	QuantityOrdered decimal.Decimal `json:"quantity_ordered"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	TaxClass        int64           `json:"tax_class,omitempty"`
}

type CreatePurchaseOrderInput struct {
	Supplier             int64                    `json:"supplier"`
	ExpectedDeliveryDate string                   `json:"expected_delivery_date,omitempty"`
	Notes                string                   `json:"notes,omitempty"`
	Items                []PurchaseOrderItemInput `json:"items"`
}

func (c *Client) CreatePurchaseOrder(ctx context.Context, in CreatePurchaseOrderInput) (*model.PurchaseOrder, error) {
	var out model.PurchaseOrder
	if err := c.Post(ctx, "/purchases/purchase-orders/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Deliveries(ctx context.Context, query url.Values) ([]model.Delivery, error) {
	return ListAll[model.Delivery](ctx, c, "/purchases/deliveries/", query)
}

// ConfirmDelivery records reception, which adds the delivered stock.
func (c *Client) ConfirmDelivery(ctx context.Context, deliveryID int64) error {
	return c.Post(ctx, "/purchases/deliveries/confirm/", map[string]int64{"delivery_id": deliveryID}, nil)
}
