package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

// ListProducts fetches every product page. query may carry search and
// category filters.
func (c *Client) ListProducts(ctx context.Context, query url.Values) ([]model.Product, error) {
	return ListAll[model.Product](ctx, c, "/products/", query)
}

func (c *Client) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	if err := c.Get(ctx, fmt.Sprintf("/products/%d/", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProduct sends a partial update. fields are in base-unit terms.
func (c *Client) UpdateProduct(ctx context.Context, id int64, fields map[string]any) (*model.Product, error) {
	var p model.Product
	if err := c.Patch(ctx, fmt.Sprintf("/products/%d/", id), fields, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	return ListAll[model.Category](ctx, c, "/products/categories/", nil)
}

func (c *Client) TaxClasses(ctx context.Context) ([]model.TaxClass, error) {
	return ListAll[model.TaxClass](ctx, c, "/products/tax-classes/", nil)
}

func (c *Client) Units(ctx context.Context) ([]model.Unit, error) {
	return ListAll[model.Unit](ctx, c, "/products/units/", nil)
}

func (c *Client) BaseUnits(ctx context.Context) ([]model.Unit, error) {
	return ListAll[model.Unit](ctx, c, "/products/base-units/", nil)
}

func (c *Client) UnitConversions(ctx context.Context) ([]model.UnitConversion, error) {
	return ListAll[model.UnitConversion](ctx, c, "/products/unit-conversions/", nil)
}

type CreateConversionInput struct {
	FromUnit         int64  `json:"from_unit"`
	ToUnit           int64  `json:"to_unit"`
	ConversionFactor string `json:"conversion_factor"`
	Description      string `json:"description,omitempty"`
	IsActive         bool   `json:"is_active"`
}

func (c *Client) CreateUnitConversion(ctx context.Context, in CreateConversionInput) (*model.UnitConversion, error) {
	var out model.UnitConversion
	if err := c.Post(ctx, "/products/unit-conversions/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ProductUnits(ctx context.Context, productID int64) ([]model.CompatibleUnit, error) {
	return ListAll[model.CompatibleUnit](ctx, c, fmt.Sprintf("/products/%d/units/", productID), nil)
}

func (c *Client) StockAvailability(ctx context.Context, productID int64) (*model.StockAvailability, error) {
	var out model.StockAvailability
	if err := c.Get(ctx, fmt.Sprintf("/products/%d/stock-availability/", productID), nil, &out); err != nil {
		return nil, err
	}
	if out.ProductID == 0 {
		out.ProductID = productID
	}
	return &out, nil
}

// BulkStockAvailability returns availability keyed by product id. Entries
// the backend omits are absent from the map.
func (c *Client) BulkStockAvailability(ctx context.Context, productIDs []int64) (map[int64]*model.StockAvailability, error) {
	out := make(map[int64]*model.StockAvailability, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}
	var raw map[string]*model.StockAvailability
	body := map[string][]int64{"product_ids": productIDs}
	if err := c.Post(ctx, "/products/bulk-stock-availability/", body, &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		if v == nil {
			continue
		}
		id, err := strconv.ParseInt(k, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid product id %q in stock availability", k)
		}
		if v.ProductID == 0 {
			v.ProductID = id
		}
		out[id] = v
	}
	return out, nil
}

func (c *Client) LowStockProducts(ctx context.Context) ([]model.Product, error) {
	return ListAll[model.Product](ctx, c, "/purchases/products/low-stock/", nil)
}
