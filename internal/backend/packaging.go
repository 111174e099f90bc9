package backend

import (
	"context"
	"fmt"
	"net/url"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

func (c *Client) PackagingValidation(ctx context.Context, saleID int64) (*model.PackagingValidation, error) {
	var out model.PackagingValidation
	if err := c.Get(ctx, fmt.Sprintf("/sales/%d/packaging-validation/", saleID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddPackaging attaches packaging to a sale after the fact.
func (c *Client) AddPackaging(ctx context.Context, saleID int64, items []model.PackagingItem) error {
	body := map[string]any{"packaging_items": items}
	return c.Post(ctx, fmt.Sprintf("/sales/%d/add-packaging/", saleID), body, nil)
}

func (c *Client) UpdatePackagingStatus(ctx context.Context, itemID int64, status model.PackagingStatus) error {
	body := map[string]model.PackagingStatus{"status": status}
	return c.Patch(ctx, fmt.Sprintf("/sales/packaging/%d/", itemID), body, nil)
}

func (c *Client) PackagingTransactions(ctx context.Context, query url.Values) ([]model.PackagingTransaction, error) {
	return ListAll[model.PackagingTransaction](ctx, c, "/packaging/transactions/", query)
}

func (c *Client) PackagingTransaction(ctx context.Context, id int64) (*model.PackagingTransaction, error) {
	var out model.PackagingTransaction
	if err := c.Get(ctx, fmt.Sprintf("/packaging/transactions/%d/", id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type PackagingPaymentInput struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes"`
}

func (c *Client) PackagingPayment(ctx context.Context, id int64, in PackagingPaymentInput) error {
	return c.Post(ctx, fmt.Sprintf("/packaging/transactions/%d/payments/", id), in, nil)
}

type SettlementType string

const (
	// SettlementReturn closes a transaction with the packaging brought back.
	SettlementReturn SettlementType = "return"
	// SettlementRefund closes it by paying the deposit back.
	SettlementRefund SettlementType = "refund"
)

func (t SettlementType) Valid() bool { return t == SettlementReturn || t == SettlementRefund }

type SettlePackagingInput struct {
	SettlementType SettlementType `json:"settlement_type"`
	Notes          string         `json:"notes"`
}

func (c *Client) SettlePackaging(ctx context.Context, id int64, in SettlePackagingInput) error {
	return c.Post(ctx, fmt.Sprintf("/packaging/transactions/%d/settle/", id), in, nil)
}
