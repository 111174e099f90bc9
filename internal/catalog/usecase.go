package catalog

import (
	"context"
	"errors"

	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
)

var ErrProductNotFound = errors.New("product not found")

type UseCase interface {
	Sync(ctx context.Context) error
	SyncUnits(ctx context.Context) error
	RefreshProduct(ctx context.Context, id int64) (*model.Product, error)
	RemoveProduct(ctx context.Context, id int64) error

	GetProduct(ctx context.Context, id int64) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Search(ctx context.Context, query string) ([]model.Product, error)

	// Graph is the conversion graph built from the snapshot's units.
	Graph(ctx context.Context) (*unit.Graph, error)
}
