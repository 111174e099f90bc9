package inventory

import "github.com/fekuna/omnipos-pos-client/internal/model"

type Status string

const (
	StatusOut Status = "out_of_stock"
	StatusLow Status = "low_stock"
	StatusOK  Status = "in_stock"
)

func StockStatus(p *model.Product) Status {
	switch {
	case !p.StockQuantity.IsPositive():
		return StatusOut
	case p.StockQuantity.LessThanOrEqual(p.MinStockLevel):
		return StatusLow
	default:
		return StatusOK
	}
}

// Filter keeps the products in status. An empty status keeps everything.
func Filter(products []model.Product, status Status) []model.Product {
	if status == "" {
		return products
	}
	out := make([]model.Product, 0, len(products))
	for i := range products {
		if StockStatus(&products[i]) == status {
			out = append(out, products[i])
		}
	}
	return out
}
