package report

import (
	"context"
	"errors"
	"io"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

var ErrInvalidPeriod = errors.New("start date must not be after end date")

type UseCase interface {
	Sales(ctx context.Context, q model.SalesReportQuery) (*model.SalesReport, error)
	// ExportSales fetches the report for q and writes it as xlsx to w.
	ExportSales(ctx context.Context, w io.Writer, q model.SalesReportQuery) error
}
