// Package printserver is the terminal's local HTTP surface: receipts for the
// browser print dialog or a raw thermal printer, the sale screen API, the
// back-office screens (inventory, purchases, packaging), the sales report
// download, health and metrics.
package printserver

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/auth"
	"github.com/fekuna/omnipos-pos-client/internal/catalog"
	"github.com/fekuna/omnipos-pos-client/internal/health"
	"github.com/fekuna/omnipos-pos-client/internal/inventory"
	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/packaging"
	"github.com/fekuna/omnipos-pos-client/internal/purchase"
	"github.com/fekuna/omnipos-pos-client/internal/receipt"
	"github.com/fekuna/omnipos-pos-client/internal/report"
	"github.com/fekuna/omnipos-pos-client/internal/terminal"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type SaleSource interface {
	Get(ctx context.Context, id int64) (*model.Sale, error)
}

type HealthReporter interface {
	Report() health.Report
}

type Config struct {
	Addr           string
	DefaultPrinter string
	Store          receipt.Store
	AllowOrigins   []string
}

// Deps are the use cases behind the routes. Every field but Sales may be
// nil, in which case its routes are not mounted.
type Deps struct {
	Sales     SaleSource
	Health    HealthReporter
	Terminal  *terminal.Terminal
	Reports   report.UseCase
	Catalog   catalog.UseCase
	Inventory inventory.UseCase
	Purchases purchase.UseCase
	Packaging packaging.UseCase
	// Session is attached to every request so handlers can name the
	// signed-in cashier. When nil receipts print the sale's seller.
	Session *auth.Session
}

type Server struct {
	cfg    Config
	deps   Deps
	engine *gin.Engine
	http   *http.Server
	logger logger.ZapLogger
}

func NewServer(cfg Config, deps Deps, log logger.ZapLogger) *Server {
	if cfg.DefaultPrinter == "" {
		cfg.DefaultPrinter = receipt.DefaultPrinter
	}
	s := &Server{cfg: cfg, deps: deps, logger: log}
	s.engine = s.routes()
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(metrics.PrometheusMiddleware())
	if s.deps.Session != nil {
		r.Use(sessionMiddleware(s.deps.Session))
	}
	if len(s.cfg.AllowOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     s.cfg.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", s.healthStatus)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	r.GET("/receipts/:id", s.receiptHTML)
	r.GET("/receipts/:id/escpos", s.receiptEscPos)

	if s.deps.Reports != nil {
		r.GET("/reports/sales.xlsx", s.salesReport)
	}

	if s.deps.Inventory != nil {
		inv := r.Group("/inventory")
		{
			inv.GET("", s.listInventory)
			inv.GET("/:id", s.productInventory)
			inv.PATCH("/:id", s.editInventory)
		}
	}

	if s.deps.Purchases != nil && s.deps.Catalog != nil {
		pur := r.Group("/purchases")
		{
			pur.GET("/suppliers", s.suppliers)
			pur.GET("/orders", s.purchaseOrders)
			pur.POST("/orders", s.createPurchaseOrder)
			pur.GET("/orders/:id/deliveries", s.deliveries)
			pur.POST("/deliveries/:id/confirm", s.confirmDelivery)
		}
	}

	if s.deps.Packaging != nil {
		pkg := r.Group("/packaging")
		{
			pkg.GET("/sales/:id", s.packagingValidation)
			pkg.POST("/sales/:id", s.addPackaging)
			pkg.PATCH("/items/:id", s.updatePackagingItem)
			pkg.GET("/transactions", s.packagingTransactions)
			pkg.GET("/transactions/:id", s.packagingTransaction)
			pkg.POST("/transactions/:id/payments", s.payPackaging)
			pkg.POST("/transactions/:id/settle", s.settlePackaging)
		}
	}

	if s.deps.Terminal != nil {
		pos := r.Group("/pos")
		{
			pos.GET("/search", s.search)
			pos.POST("/search", s.typeQuery)
			pos.GET("/products/:id", s.product)
			pos.POST("/products/:id/unit", s.selectUnit)
			pos.GET("/cart", s.showCart)
			pos.POST("/cart/items", s.addItem)
			pos.PUT("/cart/items", s.setQuantity)
			pos.DELETE("/cart/items", s.removeItem)
			pos.PUT("/cart/mode", s.setModes)
			pos.PUT("/cart/packaging/:id", s.setPackagingStatus)
			pos.DELETE("/cart/packaging/:id", s.removePackaging)
			pos.DELETE("/cart", s.clearCart)
			pos.POST("/checkout", s.checkout)
		}
	}
	return r
}

func sessionMiddleware(session *auth.Session) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

func (s *Server) Handler() http.Handler { return s.engine }

// Start serves until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	s.logger.Info("Starting print server", zap.String("addr", s.cfg.Addr))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
