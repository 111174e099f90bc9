package printserver

import (
	"net/http"

	"github.com/fekuna/omnipos-pos-client/internal/inventory"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) listInventory(c *gin.Context) {
	status := inventory.Status(c.Query("status"))
	switch status {
	case "", inventory.StatusOut, inventory.StatusLow, inventory.StatusOK:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid stock status"})
		return
	}
	products, err := s.deps.Inventory.ListByStatus(c.Request.Context(), status)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) productInventory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	avail, err := s.deps.Inventory.GetProductInventory(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, avail)
}

type inventoryEditRequest struct {
	UnitID         int64                               `json:"unit_id"`
	Values         map[inventory.Field]decimal.Decimal `json:"values"`
	ClearWholesale bool                                `json:"clear_wholesale"`
}

// editInventory applies values, given in unit_id, to the product's stock
// levels and prices.
func (s *Server) editInventory(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req inventoryEditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ctx := c.Request.Context()
	form, err := s.deps.Inventory.OpenForm(ctx, id, model.UnitRef{ID: req.UnitID})
	if err != nil {
		s.fail(c, err)
		return
	}
	for field, v := range req.Values {
		if err := form.Edit(field, v); err != nil {
			s.fail(c, err)
			return
		}
	}
	if req.ClearWholesale {
		form.ClearWholesale()
	}

	p, err := s.deps.Inventory.SaveForm(ctx, form)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) suppliers(c *gin.Context) {
	out, err := s.deps.Purchases.Suppliers(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) purchaseOrders(c *gin.Context) {
	out, err := s.deps.Purchases.Orders(c.Request.Context(), c.Query("status"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type orderItemRequest struct {
	ProductID int64               `json:"product_id" binding:"required"`
	UnitID    int64               `json:"unit_id"`
	Quantity  decimal.Decimal     `json:"quantity"`
	UnitCost  decimal.NullDecimal `json:"unit_cost"`
}

type orderRequest struct {
	SupplierID           int64              `json:"supplier_id"`
	ExpectedDeliveryDate string             `json:"expected_delivery_date"`
	Notes                string             `json:"notes"`
	Items                []orderItemRequest `json:"items"`
}

// createPurchaseOrder builds an order line by line, so unit costs default to
// the product cost converted into each line's unit.
func (s *Server) createPurchaseOrder(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	ctx := c.Request.Context()
	order, err := s.deps.Purchases.NewOrder(ctx, req.SupplierID)
	if err != nil {
		s.fail(c, err)
		return
	}
	order.ExpectedDeliveryDate = req.ExpectedDeliveryDate
	order.Notes = req.Notes
	for _, it := range req.Items {
		p, err := s.deps.Catalog.GetProduct(ctx, it.ProductID)
		if err != nil {
			s.fail(c, err)
			return
		}
		u := p.BaseUnit
		if it.UnitID != 0 {
			u = model.UnitRef{ID: it.UnitID}
		}
		line, err := order.Add(p, u, it.Quantity)
		if err != nil {
			s.fail(c, err)
			return
		}
		if it.UnitCost.Valid {
			if err := order.SetUnitCost(line.ProductID, line.Unit.ID, it.UnitCost.Decimal); err != nil {
				s.fail(c, err)
				return
			}
		}
	}

	created, err := s.deps.Purchases.Submit(ctx, order)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (s *Server) deliveries(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	out, err := s.deps.Purchases.Deliveries(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) confirmDelivery(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := s.deps.Purchases.ConfirmDelivery(c.Request.Context(), id); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
