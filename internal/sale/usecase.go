package sale

import (
	"context"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrCustomerNameRequired = errors.New("customer name is required for partial or pending sales")
	ErrInvalidPaidAmount    = errors.New("paid amount cannot be negative")
	ErrPaidExceedsTotal     = errors.New("paid amount cannot exceed the total")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrInvalidPaymentType   = errors.New("invalid payment type")
	ErrInvalidPayment       = errors.New("payment amount must be greater than zero")
)

type CheckoutInput struct {
	PaymentMethod model.PaymentMethod
	PaymentType   model.PaymentType
	// PaidAmount is read for partial payments only. A full payment pays the
	// cart total.
	PaidAmount    decimal.Decimal
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	Notes         string
}

// CompletionError reports a sale the backend created but did not complete.
// The sale exists server side and can be completed from the pending list.
type CompletionError struct {
	Sale *model.Sale
	Err  error
}

func (e *CompletionError) Error() string {
	return fmt.Sprintf("sale %s created but completion failed: %v", e.Sale.SaleNumber, e.Err)
}

func (e *CompletionError) Unwrap() error { return e.Err }

type UseCase interface {
	// Checkout submits the cart in its sale mode. Complete mode creates then
	// completes the sale; pending mode only creates it. The cart is cleared
	// once the sale exists, even when completion then fails, in which case
	// the error is a *CompletionError.
	Checkout(ctx context.Context, c *cart.Cart, in CheckoutInput) (*model.Sale, error)

	Complete(ctx context.Context, id int64) (*model.Sale, error)
	Cancel(ctx context.Context, id int64) (*model.Sale, error)
	Pay(ctx context.Context, id int64, amount decimal.Decimal, full bool) (*model.Sale, error)
	Get(ctx context.Context, id int64) (*model.Sale, error)
	Pending(ctx context.Context) ([]model.Sale, error)
}
