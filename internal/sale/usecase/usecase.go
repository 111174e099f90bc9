package usecase

import (
	"context"
	"fmt"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	EventSaleCompleted = "sale.completed"
	EventStockChanged  = "stock.changed"
)

type Backend interface {
	CreateSale(ctx context.Context, in backend.CreateSaleInput) (*model.Sale, error)
	CompleteSale(ctx context.Context, id int64) (*model.Sale, error)
	CancelSale(ctx context.Context, id int64) (*model.Sale, error)
	MakePayment(ctx context.Context, id int64, amount decimal.Decimal, full bool) (*model.Sale, error)
	GetSale(ctx context.Context, id int64) (*model.Sale, error)
	PendingSales(ctx context.Context) ([]model.Sale, error)
}

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

type saleUseCase struct {
	api       Backend
	publisher Publisher
	logger    logger.ZapLogger
}

// NewSaleUseCase builds the checkout use case. publisher may be nil.
func NewSaleUseCase(api Backend, publisher Publisher, log logger.ZapLogger) sale.UseCase {
	return &saleUseCase{
		api:       api,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *saleUseCase) Checkout(ctx context.Context, c *cart.Cart, in sale.CheckoutInput) (*model.Sale, error) {
	in, err := sale.Normalize(c, in)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	created, err := uc.api.CreateSale(ctx, createInput(c, in))
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("create_failed").Inc()
		return nil, fmt.Errorf("failed to create sale: %w", err)
	}
	lines := c.Lines()
	c.Clear()

	if c.SaleMode() == model.SaleModePending {
		metrics.CheckoutsTotal.WithLabelValues("pending").Inc()
		uc.logger.Info("pending sale created", zap.Int64("sale_id", created.ID), zap.String("sale_number", created.SaleNumber))
		return created, nil
	}

	completed, err := uc.api.CompleteSale(ctx, created.ID)
	if err != nil {
		metrics.CheckoutsTotal.WithLabelValues("complete_failed").Inc()
		uc.logger.Error("sale created but not completed",
			zap.Int64("sale_id", created.ID),
			zap.String("sale_number", created.SaleNumber),
			zap.Error(err),
		)
		return created, &sale.CompletionError{Sale: created, Err: err}
	}
	if completed.SaleNumber == "" {
		completed.SaleNumber = created.SaleNumber
	}

	metrics.CheckoutsTotal.WithLabelValues("completed").Inc()
	uc.logger.Info("sale completed", zap.Int64("sale_id", completed.ID), zap.String("sale_number", completed.SaleNumber))
	if t := completed.PackagingTransaction; t != nil {
		uc.logger.Info("packaging transaction created",
			zap.String("sale_number", completed.SaleNumber),
			zap.String("transaction_number", t.TransactionNumber),
			zap.String("total_amount", t.TotalAmount.String()),
		)
	}
	uc.publishCompleted(completed, lines)
	return completed, nil
}

func createInput(c *cart.Cart, in sale.CheckoutInput) backend.CreateSaleInput {
	lines := c.Lines()
	items := make([]backend.SaleItemInput, 0, len(lines))
	for _, l := range lines {
		items = append(items, backend.SaleItemInput{
			Product:   l.ProductID,
			Quantity:  unit.RoundQuantity(l.Quantity),
			Unit:      l.UnitID,
			UnitPrice: unit.RoundPrice(l.UnitPrice),
			PriceMode: l.PriceMode,
		})
	}
	packaging := c.Packaging()
	packagingItems := make([]model.PackagingItem, 0, len(packaging))
	for _, p := range packaging {
		packagingItems = append(packagingItems, model.PackagingItem{
			Product:       model.FlexID(p.ProductID),
			Quantity:      unit.RoundQuantity(p.Quantity),
			Unit:          model.FlexID(p.UnitID),
			UnitPrice:     unit.RoundPrice(p.UnitPrice),
			Status:        p.Status,
			CustomerName:  in.CustomerName,
			CustomerPhone: in.CustomerPhone,
		})
	}
	return backend.CreateSaleInput{
		SaleType:       "sale",
		CustomerName:   in.CustomerName,
		CustomerPhone:  in.CustomerPhone,
		CustomerEmail:  in.CustomerEmail,
		PaymentMethod:  in.PaymentMethod,
		PaidAmount:     in.PaidAmount,
		Notes:          in.Notes,
		Items:          items,
		PackagingItems: packagingItems,
	}
}

func (uc *saleUseCase) publishCompleted(s *model.Sale, lines []cart.Line) {
	if uc.publisher == nil {
		return
	}
	seen := make(map[int64]bool, len(lines))
	ids := make([]int64, 0, len(lines))
	for _, l := range lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}

	go func() {
		ctx := context.Background()
		payload := map[string]any{"id": s.ID, "sale_number": s.SaleNumber, "total_amount": s.TotalAmount}
		if err := uc.publisher.Publish(ctx, s.SaleNumber, EventSaleCompleted, payload); err != nil {
			uc.logger.Error("failed to publish sale", zap.String("sale_number", s.SaleNumber), zap.Error(err))
		}
		if err := uc.publisher.Publish(ctx, s.SaleNumber, EventStockChanged, map[string]any{"product_ids": ids}); err != nil {
			uc.logger.Error("failed to publish stock change", zap.String("sale_number", s.SaleNumber), zap.Error(err))
		}
	}()
}

func (uc *saleUseCase) Complete(ctx context.Context, id int64) (*model.Sale, error) {
	return uc.api.CompleteSale(ctx, id)
}

func (uc *saleUseCase) Cancel(ctx context.Context, id int64) (*model.Sale, error) {
	return uc.api.CancelSale(ctx, id)
}

func (uc *saleUseCase) Pay(ctx context.Context, id int64, amount decimal.Decimal, full bool) (*model.Sale, error) {
	if !full && !amount.IsPositive() {
		return nil, sale.ErrInvalidPayment
	}
	return uc.api.MakePayment(ctx, id, unit.RoundPrice(amount), full)
}

func (uc *saleUseCase) Get(ctx context.Context, id int64) (*model.Sale, error) {
	return uc.api.GetSale(ctx, id)
}

func (uc *saleUseCase) Pending(ctx context.Context) ([]model.Sale, error) {
	return uc.api.PendingSales(ctx)
}
