package cart

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrStockLoading      = errors.New("stock availability is still loading, please wait")
	ErrUnitNotStocked    = errors.New("unit not found in stock availability")
	ErrOutOfStock        = errors.New("no stock available in this unit")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("quantity must be greater than zero")
	ErrLineNotFound      = errors.New("cart line not found")
)

// StockError reports a rejected add or update with the figures behind it.
type StockError struct {
	ProductName string
	UnitName    string
	Available   decimal.Decimal
	Requested   decimal.Decimal
	Err         error
}

func (e *StockError) Error() string {
	return fmt.Sprintf("%s: %s (available %s %s, requested %s)",
		e.ProductName, e.Err, e.Available.String(), e.UnitName, e.Requested.String())
}

func (e *StockError) Unwrap() error { return e.Err }
