package usecase

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fekuna/omnipos-pos-client/internal/logger"
	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/fekuna/omnipos-pos-client/internal/report"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type Backend interface {
	SalesReport(ctx context.Context, q model.SalesReportQuery) (*model.SalesReport, error)
}

type reportUseCase struct {
	api    Backend
	logger logger.ZapLogger
	now    func() time.Time
}

func NewReportUseCase(api Backend, log logger.ZapLogger) report.UseCase {
	return &reportUseCase{
		api:    api,
		logger: log,
		now:    time.Now,
	}
}

// normalize fills a missing period with the last 30 days and checks the
// bounds are in order.
func (uc *reportUseCase) normalize(q model.SalesReportQuery) (model.SalesReportQuery, error) {
	today := uc.now()
	if q.EndDate == "" {
		q.EndDate = today.Format(dateLayout)
	}
	if q.StartDate == "" {
		q.StartDate = today.AddDate(0, 0, -30).Format(dateLayout)
	}
	if q.GroupBy == "" {
		q.GroupBy = "day"
	}

	start, err := time.Parse(dateLayout, q.StartDate)
	if err != nil {
		return q, fmt.Errorf("invalid start date %q: %w", q.StartDate, err)
	}
	end, err := time.Parse(dateLayout, q.EndDate)
	if err != nil {
		return q, fmt.Errorf("invalid end date %q: %w", q.EndDate, err)
	}
	if start.After(end) {
		return q, report.ErrInvalidPeriod
	}
	return q, nil
}

func (uc *reportUseCase) Sales(ctx context.Context, q model.SalesReportQuery) (*model.SalesReport, error) {
	q, err := uc.normalize(q)
	if err != nil {
		return nil, err
	}
	rep, err := uc.api.SalesReport(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch sales report: %w", err)
	}
	return rep, nil
}

func (uc *reportUseCase) ExportSales(ctx context.Context, w io.Writer, q model.SalesReportQuery) error {
	q, err := uc.normalize(q)
	if err != nil {
		return err
	}
	q.IncludeDetails = true
	rep, err := uc.api.SalesReport(ctx, q)
	if err != nil {
		return fmt.Errorf("failed to fetch sales report: %w", err)
	}
	if err := report.WriteSalesXLSX(w, rep, q); err != nil {
		return err
	}
	uc.logger.Info("sales report exported",
		zap.String("start_date", q.StartDate),
		zap.String("end_date", q.EndDate),
		zap.Int("sales", rep.Summary.TotalCount),
	)
	return nil
}
