package packaging

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrNoPackaging         = errors.New("product has no returnable packaging")
	ErrInvalidQuantity     = errors.New("packaging quantity must be greater than zero")
	ErrInvalidStatus       = errors.New("invalid packaging status")
	ErrInvalidAmount       = errors.New("payment amount must be greater than zero")
	ErrExceedsRemaining    = errors.New("payment amount exceeds the remaining deposit")
	ErrInvalidMethod       = errors.New("invalid payment method")
	ErrInvalidSettlement   = errors.New("invalid settlement type")
	ErrNotPayable          = errors.New("transaction does not accept payments")
	ErrNotSettleable       = errors.New("transaction cannot be settled")
	ErrTransactionNotFound = errors.New("packaging transaction not found")
)

// AddInput is packaging attached to a sale after checkout. The unit price
// and unit come from the product.
type AddInput struct {
	ProductID     int64
	Quantity      decimal.Decimal
	Status        model.PackagingStatus
	CustomerName  string
	CustomerPhone string
	Notes         string
}

type TransactionFilter struct {
	Status          string
	PaymentStatus   string
	TransactionType model.PackagingStatus
}

type UseCase interface {
	Validation(ctx context.Context, saleID int64) (*model.PackagingValidation, error)
	Add(ctx context.Context, saleID int64, in AddInput) error
	UpdateStatus(ctx context.Context, itemID int64, status model.PackagingStatus) error

	Transactions(ctx context.Context, f TransactionFilter) ([]model.PackagingTransaction, error)
	Transaction(ctx context.Context, id int64) (*model.PackagingTransaction, error)
	// Pay takes a deposit payment on a consignation transaction.
	Pay(ctx context.Context, id int64, in backend.PackagingPaymentInput) error
	Settle(ctx context.Context, id int64, in backend.SettlePackagingInput) error
}
