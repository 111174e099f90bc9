package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

type SaleItemInput struct {
	Product   int64           `json:"product"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      int64           `json:"unit"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	PriceMode model.PriceMode `json:"price_mode"`
}

type CreateSaleInput struct {
	SaleType      string              `json:"sale_type"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail string              `json:"customer_email"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	Notes         string              `json:"notes,omitempty"`
	Items         []SaleItemInput     `json:"items"`
	// PackagingItems become a packaging transaction once the sale completes.
	PackagingItems []model.PackagingItem `json:"packaging_items"`
}

func (c *Client) CreateSale(ctx context.Context, in CreateSaleInput) (*model.Sale, error) {
	if in.SaleType == "" {
		in.SaleType = "sale"
	}
	var out model.Sale
	if err := c.Post(ctx, "/sales/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CompleteSale finalizes a sale, which deducts its stock.
func (c *Client) CompleteSale(ctx context.Context, id int64) (*model.Sale, error) {
	return c.saleAction(ctx, id, "complete", nil)
}

func (c *Client) CancelSale(ctx context.Context, id int64) (*model.Sale, error) {
	return c.saleAction(ctx, id, "cancel", nil)
}

type paymentResponse struct {
	Message string      `json:"message"`
	Sale    *model.Sale `json:"sale"`
}

func (c *Client) MakePayment(ctx context.Context, id int64, amount decimal.Decimal, full bool) (*model.Sale, error) {
	body := map[string]any{"payment_amount": amount, "is_full_payment": full}
	var out paymentResponse
	if err := c.Post(ctx, fmt.Sprintf("/sales/%d/payment/", id), body, &out); err != nil {
		return nil, err
	}
	if out.Sale == nil {
		return c.GetSale(ctx, id)
	}
	return out.Sale, nil
}

func (c *Client) saleAction(ctx context.Context, id int64, action string, body any) (*model.Sale, error) {
	var out struct {
		model.Sale
		Nested      *model.Sale                 `json:"sale"`
		Transaction *model.PackagingTransaction `json:"packaging_transaction"`
	}
	if err := c.Post(ctx, fmt.Sprintf("/sales/%d/%s/", id, action), body, &out); err != nil {
		return nil, err
	}

	var s *model.Sale
	switch {
	case out.Nested != nil:
		s = out.Nested
	case out.ID == 0:
		fetched, err := c.GetSale(ctx, id)
		if err != nil {
			return nil, err
		}
		s = fetched
	default:
		s = &out.Sale
	}
	if out.Transaction != nil {
		s.PackagingTransaction = out.Transaction
	}
	return s, nil
}

func (c *Client) GetSale(ctx context.Context, id int64) (*model.Sale, error) {
	var s model.Sale
	if err := c.Get(ctx, fmt.Sprintf("/sales/%d/", id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *Client) PendingSales(ctx context.Context) ([]model.Sale, error) {
	return ListAll[model.Sale](ctx, c, "/sales/pending/", nil)
}

func (c *Client) ListSales(ctx context.Context, query url.Values) ([]model.Sale, error) {
	return ListAll[model.Sale](ctx, c, "/sales/", query)
}
