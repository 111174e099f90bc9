package cart

import (
	"errors"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
)

var (
	ErrNoPackaging            = errors.New("product has no packaging in the cart")
	ErrInvalidPackagingStatus = errors.New("invalid packaging status")
)

// PackagingLine is the returnable packaging that goes out with every line of
// one product, counted in the product's base unit.
type PackagingLine struct {
	ProductID   int64                 `json:"product_id"`
	ProductName string                `json:"product_name"`
	UnitID      int64                 `json:"unit_id"`
	Quantity    decimal.Decimal       `json:"quantity"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Status      model.PackagingStatus `json:"status"`
}

func (p PackagingLine) Total() decimal.Decimal { return p.Quantity.Mul(p.UnitPrice) }

// Payable is the part of the line charged with the sale: the whole total for
// consigned packaging and nothing otherwise.
func (p PackagingLine) Payable() decimal.Decimal {
	if !p.Status.Payable() {
		return decimal.Zero
	}
	return p.Total()
}

// packagingState holds the cashier's choices about derived packaging. The
// quantities themselves are never stored.
type packagingState struct {
	status  map[int64]model.PackagingStatus
	dropped map[int64]bool
}

func newPackagingState() packagingState {
	return packagingState{
		status:  make(map[int64]model.PackagingStatus),
		dropped: make(map[int64]bool),
	}
}

// touch brings back packaging dropped for productID once its lines change.
func (s packagingState) touch(productID int64) { delete(s.dropped, productID) }

func (s packagingState) forget(productID int64) {
	delete(s.status, productID)
	delete(s.dropped, productID)
}

// Packaging derives one packaging line per product with returnable
// packaging, in the order the products were first added. Each sale line
// contributes its quantity converted to base units.
func (c *Cart) Packaging() []PackagingLine {
	var out []PackagingLine
	index := make(map[int64]int)
	for _, l := range c.lines {
		if !l.PackagingPrice.Valid || c.packaging.dropped[l.ProductID] {
			continue
		}
		qty := l.Quantity.Mul(c.baseFactor(l))
		if i, ok := index[l.ProductID]; ok {
			out[i].Quantity = out[i].Quantity.Add(qty)
			continue
		}
		status, ok := c.packaging.status[l.ProductID]
		if !ok {
			status = model.PackagingConsignation
		}
		index[l.ProductID] = len(out)
		out = append(out, PackagingLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitID:      l.BaseUnitID,
			Quantity:    qty,
			UnitPrice:   l.PackagingPrice.Decimal,
			Status:      status,
		})
	}
	return out
}

// baseFactor is how many base units one unit of the line holds. The stock
// payload is preferred, then the conversion graph; without either the line
// is taken to be in base units.
func (c *Cart) baseFactor(l *Line) decimal.Decimal {
	if l.UnitID == l.BaseUnitID {
		return decimal.NewFromInt(1)
	}
	if s, ok := c.stock[l.ProductID]; ok {
		if _, ok := s.Unit(l.UnitID); ok {
			return unitFactor(s, l.UnitID)
		}
	}
	if c.conv != nil {
		if f, ok := c.conv.Graph().Factor(l.UnitID, l.BaseUnitID); ok {
			return f
		}
	}
	return decimal.NewFromInt(1)
}

func (c *Cart) hasPackaging(productID int64) bool {
	for _, l := range c.lines {
		if l.ProductID == productID && l.PackagingPrice.Valid {
			return true
		}
	}
	return false
}

// SetPackagingStatus changes how productID's packaging leaves the shop.
func (c *Cart) SetPackagingStatus(productID int64, status model.PackagingStatus) error {
	if !status.Valid() {
		return ErrInvalidPackagingStatus
	}
	if !c.hasPackaging(productID) {
		return ErrNoPackaging
	}
	c.packaging.status[productID] = status
	delete(c.packaging.dropped, productID)
	return nil
}

// RemovePackaging leaves productID's packaging out of the sale until its
// lines change again.
func (c *Cart) RemovePackaging(productID int64) bool {
	if !c.hasPackaging(productID) || c.packaging.dropped[productID] {
		return false
	}
	c.packaging.dropped[productID] = true
	return true
}
