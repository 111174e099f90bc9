package catalog

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/model"
)

// Repository is the local snapshot of the backend catalog.
type Repository interface {
	Migrate(ctx context.Context) error

	// Products
	ReplaceProducts(ctx context.Context, products []model.Product) error
	UpsertProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*model.Product, error)
	FindByIDs(ctx context.Context, ids []int64) ([]model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)

	// Units and conversions
	ReplaceUnits(ctx context.Context, units []model.Unit, conversions []model.UnitConversion) error
	Units(ctx context.Context) ([]model.Unit, error)
	Conversions(ctx context.Context) ([]model.UnitConversion, error)

	LastSync(ctx context.Context) (time.Time, error)
	MarkSynced(ctx context.Context, at time.Time) error
}
