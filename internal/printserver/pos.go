package printserver

import (
	"net/http"

	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type queryRequest struct {
	Query string `json:"query"`
}

// search runs ?q= at once, or returns the last debounced result when q is
// absent.
func (s *Server) search(c *gin.Context) {
	q, ok := c.GetQuery("q")
	if !ok {
		r := s.deps.Terminal.Results()
		if r.Err != nil {
			s.fail(c, r.Err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"query": r.Query, "results": r.Value})
		return
	}
	products, err := s.deps.Terminal.Search(c.Request.Context(), q)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "results": products})
}

func (s *Server) typeQuery(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	s.deps.Terminal.Type(req.Query)
	c.Status(http.StatusAccepted)
}

func (s *Server) product(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := s.deps.Terminal.Product(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type unitRequest struct {
	UnitID int64 `json:"unit_id" binding:"required"`
}

func (s *Server) selectUnit(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req unitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	s.deps.Terminal.SelectUnit(id, req.UnitID)
	c.Status(http.StatusNoContent)
}

func (s *Server) showCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

type itemRequest struct {
	ProductID int64           `json:"product_id" binding:"required"`
	UnitID    int64           `json:"unit_id"`
	PriceMode model.PriceMode `json:"price_mode"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// key leaves an empty price mode for the terminal to fill with the cart's.
func (r itemRequest) key() cart.Key {
	return cart.Key{ProductID: r.ProductID, UnitID: r.UnitID, PriceMode: r.PriceMode}
}

func validPriceMode(m model.PriceMode) bool {
	return m == "" || m == model.PriceModeStandard || m == model.PriceModeWholesale
}

// bindItem decodes an item request and rejects unknown price modes.
func bindItem(c *gin.Context) (itemRequest, bool) {
	var req itemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return req, false
	}
	if !validPriceMode(req.PriceMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price mode"})
		return req, false
	}
	return req, true
}

func (s *Server) addItem(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	line, err := s.deps.Terminal.Add(c.Request.Context(), req.ProductID, req.UnitID, req.PriceMode, req.Quantity)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, line)
}

func (s *Server) setQuantity(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if err := s.deps.Terminal.SetQuantity(req.key(), req.Quantity); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

func (s *Server) removeItem(c *gin.Context) {
	req, ok := bindItem(c)
	if !ok {
		return
	}
	if !s.deps.Terminal.Remove(req.key()) {
		s.fail(c, cart.ErrLineNotFound)
		return
	}
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

type modeRequest struct {
	SaleMode  model.SaleMode  `json:"sale_mode"`
	PriceMode model.PriceMode `json:"price_mode"`
}

func (s *Server) setModes(c *gin.Context) {
	var req modeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	switch req.SaleMode {
	case "", model.SaleModeComplete, model.SaleModePending:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sale mode"})
		return
	}
	if !validPriceMode(req.PriceMode) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price mode"})
		return
	}
	if req.SaleMode != "" {
		s.deps.Terminal.SetSaleMode(req.SaleMode)
	}
	if req.PriceMode != "" {
		s.deps.Terminal.SetPriceMode(req.PriceMode)
	}
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

type packagingStatusRequest struct {
	Status model.PackagingStatus `json:"status" binding:"required"`
}

func (s *Server) setPackagingStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req packagingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := s.deps.Terminal.SetPackagingStatus(id, req.Status); err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

func (s *Server) removePackaging(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if !s.deps.Terminal.RemovePackaging(id) {
		s.fail(c, cart.ErrNoPackaging)
		return
	}
	c.JSON(http.StatusOK, s.deps.Terminal.Cart())
}

func (s *Server) clearCart(c *gin.Context) {
	s.deps.Terminal.Clear()
	c.Status(http.StatusNoContent)
}

type checkoutRequest struct {
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	PaymentType   model.PaymentType   `json:"payment_type"`
	PaidAmount    decimal.Decimal     `json:"paid_amount"`
	CustomerName  string              `json:"customer_name"`
	CustomerPhone string              `json:"customer_phone"`
	CustomerEmail string              `json:"customer_email"`
	Notes         string              `json:"notes"`
}

func (s *Server) checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	created, err := s.deps.Terminal.Checkout(c.Request.Context(), sale.CheckoutInput{
		PaymentMethod: req.PaymentMethod,
		PaymentType:   req.PaymentType,
		PaidAmount:    req.PaidAmount,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		CustomerEmail: req.CustomerEmail,
		Notes:         req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}
