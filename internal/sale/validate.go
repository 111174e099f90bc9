package sale

import (
	"strings"

	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"github.com/shopspring/decimal"
)

// Normalize checks in against the cart and returns it with defaults filled
// and the paid amount settled. Nothing is sent when it fails.
func Normalize(c *cart.Cart, in CheckoutInput) (CheckoutInput, error) {
	if c.IsEmpty() {
		return in, ErrEmptyCart
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PaymentCash
	}
	if !in.PaymentMethod.Valid() {
		return in, ErrInvalidPaymentMethod
	}
	if in.PaymentType == "" {
		in.PaymentType = model.PaymentFull
	}
	in.CustomerName = strings.TrimSpace(in.CustomerName)

	total := unit.RoundPrice(c.Totals().Total())
	switch in.PaymentType {
	case model.PaymentFull:
		in.PaidAmount = total
	case model.PaymentPartial:
		if in.PaidAmount.IsNegative() {
			return in, ErrInvalidPaidAmount
		}
		in.PaidAmount = unit.RoundPrice(in.PaidAmount)
		if in.PaidAmount.GreaterThan(total) {
			return in, ErrPaidExceedsTotal
		}
	default:
		return in, ErrInvalidPaymentType
	}

	if (c.SaleMode() == model.SaleModePending || in.PaymentType == model.PaymentPartial) && in.CustomerName == "" {
		return in, ErrCustomerNameRequired
	}
	return in, nil
}

// Remaining is what is left to pay after paid.
func Remaining(total, paid decimal.Decimal) decimal.Decimal {
	r := total.Sub(paid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}
