package cart

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// TaxSplit is a tax-inclusive amount broken into its tax and its cost
// before tax.
type TaxSplit struct {
	Amount decimal.Decimal `json:"amount"`
	Tax    decimal.Decimal `json:"tax"`
	Cost   decimal.Decimal `json:"cost"`
}

// SplitInclusive back-calculates tax from an amount that already contains
// it. Without a positive rate the whole amount is cost.
func SplitInclusive(amount decimal.Decimal, rate decimal.NullDecimal) TaxSplit {
	if !rate.Valid || !rate.Decimal.IsPositive() {
		return TaxSplit{Amount: amount, Tax: decimal.Zero, Cost: amount}
	}
	denom := hundred.Add(rate.Decimal)
	return TaxSplit{
		Amount: amount,
		Tax:    amount.Mul(rate.Decimal).Div(denom),
		Cost:   amount.Mul(hundred).Div(denom),
	}
}

type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Cost     decimal.Decimal `json:"cost"`
	Items    decimal.Decimal `json:"items"`
	// Packaging is the deposit charged for consigned packaging.
	Packaging decimal.Decimal `json:"packaging"`
}

// Total is what the customer pays for the goods. Prices are tax-inclusive so
// it equals the subtotal. Packaging deposits are settled apart.
func (t Totals) Total() decimal.Decimal { return t.Subtotal }

// TotalWithPackaging adds the packaging deposit to the goods total.
func (t Totals) TotalWithPackaging() decimal.Decimal { return t.Subtotal.Add(t.Packaging) }
