package printserver

import (
	"net/http"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/packaging"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (s *Server) packagingValidation(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	v, err := s.deps.Packaging.Validation(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

type addPackagingRequest struct {
	ProductID     int64                 `json:"product_id" binding:"required"`
	Quantity      decimal.Decimal       `json:"quantity"`
	Status        model.PackagingStatus `json:"status"`
	CustomerName  string                `json:"customer_name"`
	CustomerPhone string                `json:"customer_phone"`
	Notes         string                `json:"notes"`
}

func (s *Server) addPackaging(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req addPackagingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	err := s.deps.Packaging.Add(c.Request.Context(), id, packaging.AddInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		Status:        req.Status,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (s *Server) updatePackagingItem(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req packagingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	if err := s.deps.Packaging.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) packagingTransactions(c *gin.Context) {
	list, err := s.deps.Packaging.Transactions(c.Request.Context(), packaging.TransactionFilter{
		Status:          c.Query("status"),
		PaymentStatus:   c.Query("payment_status"),
		TransactionType: model.PackagingStatus(c.Query("transaction_type")),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) packagingTransaction(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	t, err := s.deps.Packaging.Transaction(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

type packagingPaymentRequest struct {
	Amount        decimal.Decimal     `json:"amount"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
	Notes         string              `json:"notes"`
}

func (s *Server) payPackaging(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req packagingPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	err := s.deps.Packaging.Pay(c.Request.Context(), id, backend.PackagingPaymentInput{
		Amount:        req.Amount,
		PaymentMethod: req.PaymentMethod,
		Notes:         req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type settleRequest struct {
	SettlementType backend.SettlementType `json:"settlement_type"`
	Notes          string                 `json:"notes"`
}

func (s *Server) settlePackaging(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req settleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	err := s.deps.Packaging.Settle(c.Request.Context(), id, backend.SettlePackagingInput{
		SettlementType: req.SettlementType,
		Notes:          req.Notes,
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
