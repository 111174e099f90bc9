package usecase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/packaging"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"go.uber.org/zap"
)

type Backend interface {
	PackagingValidation(ctx context.Context, saleID int64) (*model.PackagingValidation, error)
	AddPackaging(ctx context.Context, saleID int64, items []model.PackagingItem) error
	UpdatePackagingStatus(ctx context.Context, itemID int64, status model.PackagingStatus) error
	PackagingTransactions(ctx context.Context, query url.Values) ([]model.PackagingTransaction, error)
	PackagingTransaction(ctx context.Context, id int64) (*model.PackagingTransaction, error)
	PackagingPayment(ctx context.Context, id int64, in backend.PackagingPaymentInput) error
	SettlePackaging(ctx context.Context, id int64, in backend.SettlePackagingInput) error
}

type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
}

type packagingUseCase struct {
	api      Backend
	products ProductSource
	logger   logger.ZapLogger
}

func NewPackagingUseCase(api Backend, products ProductSource, log logger.ZapLogger) packaging.UseCase {
	return &packagingUseCase{api: api, products: products, logger: log}
}

func (uc *packagingUseCase) Validation(ctx context.Context, saleID int64) (*model.PackagingValidation, error) {
	v, err := uc.api.PackagingValidation(ctx, saleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load packaging of sale %d: %w", saleID, err)
	}
	return v, nil
}

func (uc *packagingUseCase) Add(ctx context.Context, saleID int64, in packaging.AddInput) error {
	if !in.Quantity.IsPositive() {
		return packaging.ErrInvalidQuantity
	}
	if in.Status == "" {
		in.Status = model.PackagingConsignation
	}
	if !in.Status.Valid() {
		return packaging.ErrInvalidStatus
	}
	p, err := uc.products.GetProduct(ctx, in.ProductID)
	if err != nil {
		return err
	}
	price, ok := p.Packaging()
	if !ok {
		return fmt.Errorf("%s: %w", p.Name, packaging.ErrNoPackaging)
	}

	item := model.PackagingItem{
		Product:       model.FlexID(p.ID),
		Quantity:      unit.RoundQuantity(in.Quantity),
		Unit:          model.FlexID(p.BaseUnit.ID),
		UnitPrice:     unit.RoundPrice(price),
		Status:        in.Status,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		Notes:         in.Notes,
	}
	if err := uc.api.AddPackaging(ctx, saleID, []model.PackagingItem{item}); err != nil {
		return fmt.Errorf("failed to add packaging to sale %d: %w", saleID, err)
	}
	uc.logger.Info("packaging added to sale",
		zap.Int64("sale_id", saleID),
		zap.Int64("product_id", p.ID),
		zap.String("quantity", item.Quantity.String()),
		zap.String("status", string(item.Status)),
	)
	return nil
}

func (uc *packagingUseCase) UpdateStatus(ctx context.Context, itemID int64, status model.PackagingStatus) error {
	if !status.Valid() {
		return packaging.ErrInvalidStatus
	}
	if err := uc.api.UpdatePackagingStatus(ctx, itemID, status); err != nil {
		return fmt.Errorf("failed to update packaging %d: %w", itemID, err)
	}
	return nil
}

func (uc *packagingUseCase) Transactions(ctx context.Context, f packaging.TransactionFilter) ([]model.PackagingTransaction, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	if f.PaymentStatus != "" {
		q.Set("payment_status", f.PaymentStatus)
	}
	if f.TransactionType != "" {
		q.Set("transaction_type", string(f.TransactionType))
	}
	return uc.api.PackagingTransactions(ctx, q)
}

func (uc *packagingUseCase) Transaction(ctx context.Context, id int64) (*model.PackagingTransaction, error) {
	t, err := uc.api.PackagingTransaction(ctx, id)
	if err != nil {
		if backend.StatusCode(err) == http.StatusNotFound {
			return nil, packaging.ErrTransactionNotFound
		}
		return nil, err
	}
	return t, nil
}

func (uc *packagingUseCase) Pay(ctx context.Context, id int64, in backend.PackagingPaymentInput) error {
	if !in.Amount.IsPositive() {
		return packaging.ErrInvalidAmount
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PaymentCash
	}
	if !in.PaymentMethod.Valid() {
		return packaging.ErrInvalidMethod
	}
	t, err := uc.Transaction(ctx, id)
	if err != nil {
		return err
	}
	if !t.Payable() {
		return packaging.ErrNotPayable
	}
	in.Amount = unit.RoundPrice(in.Amount)
	if in.Amount.GreaterThan(t.RemainingAmount) {
		return packaging.ErrExceedsRemaining
	}

	if err := uc.api.PackagingPayment(ctx, id, in); err != nil {
		return fmt.Errorf("failed to pay packaging deposit: %w", err)
	}
	uc.logger.Info("packaging deposit paid",
		zap.String("transaction_number", t.TransactionNumber),
		zap.String("amount", in.Amount.StringFixed(2)),
	)
	return nil
}

func (uc *packagingUseCase) Settle(ctx context.Context, id int64, in backend.SettlePackagingInput) error {
	if in.SettlementType == "" {
		in.SettlementType = backend.SettlementReturn
	}
	if !in.SettlementType.Valid() {
		return packaging.ErrInvalidSettlement
	}
	t, err := uc.Transaction(ctx, id)
	if err != nil {
		return err
	}
	if !t.Settleable() {
		return packaging.ErrNotSettleable
	}

	if err := uc.api.SettlePackaging(ctx, id, in); err != nil {
		return fmt.Errorf("failed to settle packaging: %w", err)
	}
	uc.logger.Info("packaging settled",
		zap.String("transaction_number", t.TransactionNumber),
		zap.String("settlement_type", string(in.SettlementType)),
	)
	return nil
}
