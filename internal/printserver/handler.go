package printserver

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-pos-client/internal/auth"
	"github.com/fekuna/omnipos-pos-client/internal/metrics"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/receipt"
	"github.com/fekuna/omnipos-pos-client/internal/report"
	"github.com/gin-gonic/gin"
)

func (s *Server) healthStatus(c *gin.Context) {
	if s.deps.Health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "unknown"})
		return
	}
	c.JSON(http.StatusOK, s.deps.Health.Report())
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func (s *Server) loadReceipt(c *gin.Context) (*receipt.Receipt, bool) {
	id, ok := paramID(c)
	if !ok {
		return nil, false
	}
	sl, err := s.deps.Sales.Get(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err)
		return nil, false
	}
	return receipt.FromSale(sl, auth.GetCashier(c.Request.Context())), true
}

func (s *Server) printer(c *gin.Context) receipt.Printer {
	p, _ := receipt.LookupPrinter(c.DefaultQuery("printer", s.cfg.DefaultPrinter))
	return p
}

func (s *Server) receiptHTML(c *gin.Context) {
	r, ok := s.loadReceipt(c)
	if !ok {
		return
	}
	p := s.printer(c)

	var buf bytes.Buffer
	if err := receipt.RenderHTML(&buf, r, s.cfg.Store, p); err != nil {
		s.fail(c, err)
		return
	}
	metrics.ReceiptsRenderedTotal.WithLabelValues(p.Name, "html").Inc()
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) receiptEscPos(c *gin.Context) {
	r, ok := s.loadReceipt(c)
	if !ok {
		return
	}
	p := s.printer(c)
	metrics.ReceiptsRenderedTotal.WithLabelValues(p.Name, "escpos").Inc()
	c.Data(http.StatusOK, "application/octet-stream", receipt.EscPos(r, s.cfg.Store, p))
}

func (s *Server) salesReport(c *gin.Context) {
	q := model.SalesReportQuery{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		GroupBy:   c.Query("group_by"),
	}

	var buf bytes.Buffer
	if err := s.deps.Reports.ExportSales(c.Request.Context(), &buf, q); err != nil {
		s.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=sales-report.xlsx")
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
