package inventory

import (
	"context"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

type UseCase interface {
	GetProductInventory(ctx context.Context, productID int64) (*model.StockAvailability, error)
	ListLowStock(ctx context.Context) ([]model.Product, error)
	ListByStatus(ctx context.Context, status Status) ([]model.Product, error)

	// OpenForm loads a product into an edit form shown in display. A zero
	// display unit picks the product's default unit.
	OpenForm(ctx context.Context, productID int64, display model.UnitRef) (*Form, error)
	SaveForm(ctx context.Context, form *Form) (*model.Product, error)
}
