package printserver

import (
	"errors"
	"net/http"

	"github.com/fekuna/omnipos-pos-client/internal/backend"
	"github.com/fekuna/omnipos-pos-client/internal/cart"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/inventory"
	"github.com/fekuna/omnipos-pos-client/internal/packaging"
	"github.com/fekuna/omnipos-pos-client/internal/purchase"
	"github.com/fekuna/omnipos-pos-client/internal/report"
	"github.com/fekuna/omnipos-pos-client/internal/sale"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var badRequest = []error{
	sale.ErrEmptyCart,
	sale.ErrCustomerNameRequired,
	sale.ErrInvalidPaidAmount,
	sale.ErrPaidExceedsTotal,
	sale.ErrInvalidPaymentMethod,
	sale.ErrInvalidPaymentType,
	sale.ErrInvalidPayment,
	cart.ErrInvalidQuantity,
	cart.ErrInvalidPackagingStatus,
	report.ErrInvalidPeriod,
	inventory.ErrUnknownField,
	inventory.ErrNegativeValue,
	purchase.ErrNoSupplier,
	purchase.ErrEmptyOrder,
	purchase.ErrInvalidQuantity,
	purchase.ErrNegativeUnitCost,
	packaging.ErrNoPackaging,
	packaging.ErrInvalidQuantity,
	packaging.ErrInvalidStatus,
	packaging.ErrInvalidAmount,
	packaging.ErrExceedsRemaining,
	packaging.ErrInvalidMethod,
	packaging.ErrInvalidSettlement,
}

var conflict = []error{
	cart.ErrStockLoading,
	cart.ErrUnitNotStocked,
	cart.ErrOutOfStock,
	cart.ErrInsufficientStock,
	packaging.ErrNotPayable,
	packaging.ErrNotSettleable,
}

func statusFor(err error) int {
	for _, target := range badRequest {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	for _, target := range conflict {
		if errors.Is(err, target) {
			return http.StatusConflict
		}
	}
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, cart.ErrLineNotFound),
		errors.Is(err, purchase.ErrLineNotFound), errors.Is(err, cart.ErrNoPackaging),
		errors.Is(err, packaging.ErrTransactionNotFound):
		return http.StatusNotFound
	case backend.IsNetworkError(err):
		return http.StatusServiceUnavailable
	}
	if code := backend.StatusCode(err); code >= 400 && code < 500 {
		return code
	} else if code >= 500 {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}

	var completion *sale.CompletionError
	if errors.As(err, &completion) {
		c.JSON(status, gin.H{"error": err.Error(), "sale": completion.Sale})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
