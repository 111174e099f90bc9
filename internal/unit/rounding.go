package unit

import "github.com/shopspring/decimal"

// Rounding is half away from zero everywhere. Intermediate arithmetic is
// never rounded; these are applied only at display or submission time.

func RoundQuantity(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

func RoundPrice(d decimal.Decimal) decimal.Decimal { return d.Round(2) }

// RoundStockCount is used for integer stock fields sent to the backend.
func RoundStockCount(d decimal.Decimal) decimal.Decimal { return d.Round(0) }
