package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/catalog/dto"
	"github.com/fekuna/omnipos-pos-client/internal/inventory"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/unit"
	"go.uber.org/zap"
)

type Backend interface {
	StockAvailability(ctx context.Context, productID int64) (*model.StockAvailability, error)
	LowStockProducts(ctx context.Context) ([]model.Product, error)
	UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*model.Product, error)
}

type Publisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

type inventoryUseCase struct {
	api       Backend
	catalog   catalog.UseCase
	publisher Publisher
	logger    logger.ZapLogger
}

// NewInventoryUseCase builds the inventory use case. publisher may be nil.
func NewInventoryUseCase(api Backend, catalog catalog.UseCase, publisher Publisher, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		api:       api,
		catalog:   catalog,
		publisher: publisher,
		logger:    log,
	}
}

func (uc *inventoryUseCase) GetProductInventory(ctx context.Context, productID int64) (*model.StockAvailability, error) {
	return uc.api.StockAvailability(ctx, productID)
}

func (uc *inventoryUseCase) ListLowStock(ctx context.Context) ([]model.Product, error) {
	return uc.api.LowStockProducts(ctx)
}

func (uc *inventoryUseCase) ListByStatus(ctx context.Context, status inventory.Status) ([]model.Product, error) {
	products, _, err := uc.catalog.ListProducts(ctx, &dto.ProductFilters{})
	if err != nil {
		return nil, err
	}
	return inventory.Filter(products, status), nil
}

func (uc *inventoryUseCase) OpenForm(ctx context.Context, productID int64, display model.UnitRef) (*inventory.Form, error) {
	p, err := uc.catalog.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	g, err := uc.catalog.Graph(ctx)
	if err != nil {
		return nil, err
	}
	if !display.Valid() {
		display, _ = unit.DefaultUnit(g, p)
	}

	form := inventory.NewForm(unit.NewConverter(g))
	form.Load(p, display)
	return form, nil
}

// SaveForm sends the form's base-unit values. A form without edits is not
// sent.
func (uc *inventoryUseCase) SaveForm(ctx context.Context, form *inventory.Form) (*model.Product, error) {
	p := form.Product()
	if p == nil {
		return nil, inventory.ErrNotLoaded
	}
	if !form.Dirty() {
		return p, nil
	}

	updated, err := uc.api.UpdateProduct(ctx, p.ID, form.Payload())
	if err != nil {
		return nil, fmt.Errorf("failed to update product %d: %w", p.ID, err)
	}
	if _, err := uc.catalog.RefreshProduct(ctx, p.ID); err != nil {
		uc.logger.Warn("failed to refresh snapshot after update", zap.Int64("product_id", p.ID), zap.Error(err))
	}

	if uc.publisher != nil {
		go func() {
			err := uc.publisher.Publish(context.Background(), strconv.FormatInt(p.ID, 10), "catalog.product.updated", map[string]any{"id": p.ID})
			if err != nil {
				uc.logger.Error("failed to publish product update", zap.Int64("product_id", p.ID), zap.Error(err))
			}
		}()
	}
	return updated, nil
}
