// Package report exports backend sales reports as spreadsheets.
package report

import (
	"fmt"
	"io"

	"github.com/fekuna/omnipos-pos-client/internal/model"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetSummary = "Summary"
	SheetChart   = "Daily"
	SheetDetails = "Details"
)

// WriteSalesXLSX writes rep as a workbook with a summary sheet, one row per
// chart point and, when the report carries them, one row per sale.
func WriteSalesXLSX(w io.Writer, rep *model.SalesReport, q model.SalesReportQuery) error {
	file := xlsx.NewFile()

	summary, err := file.AddSheet(SheetSummary)
	if err != nil {
		return fmt.Errorf("failed to add summary sheet: %w", err)
	}
	pair(summary, "Period", q.StartDate+" - "+q.EndDate)
	money(summary, "Total sales", rep.Summary.TotalSales)
	count := summary.AddRow()
	count.AddCell().SetString("Number of sales")
	count.AddCell().SetInt(rep.Summary.TotalCount)
	money(summary, "Items sold", rep.Summary.TotalItems)
	money(summary, "Average sale", rep.Summary.AverageSale())
	_ = summary.SetColWidth(0, 0, 20)
	_ = summary.SetColWidth(1, 1, 24)

	chart, err := file.AddSheet(SheetChart)
	if err != nil {
		return fmt.Errorf("failed to add chart sheet: %w", err)
	}
	header(chart, "Date", "Total", "Sales")
	for _, pt := range rep.ChartData {
		row := chart.AddRow()
		row.AddCell().SetString(pt.Date)
		row.AddCell().SetFloat(pt.Total.InexactFloat64())
		row.AddCell().SetInt(pt.Count)
	}

	if len(rep.Details) > 0 {
		details, err := file.AddSheet(SheetDetails)
		if err != nil {
			return fmt.Errorf("failed to add details sheet: %w", err)
		}
		header(details, "Sale No", "Date", "Customer", "Sold by", "Items", "Total")
		for _, e := range rep.Details {
			row := details.AddRow()
			row.AddCell().SetString(e.SaleNumber)
			row.AddCell().SetString(e.CreatedAt.Format("2006-01-02 15:04"))
			row.AddCell().SetString(e.CustomerName)
			row.AddCell().SetString(e.SoldBy)
			row.AddCell().SetInt(e.ItemsCount)
			row.AddCell().SetFloat(e.TotalAmount.InexactFloat64())
		}
		_ = details.SetColWidth(0, 3, 18)
	}

	if err := file.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func header(s *xlsx.Sheet, titles ...string) {
	row := s.AddRow()
	for _, t := range titles {
		c := row.AddCell()
		c.SetString(t)
		style := xlsx.NewStyle()
		style.Font.Bold = true
		style.ApplyFont = true
		c.SetStyle(style)
	}
}

func pair(s *xlsx.Sheet, label, value string) {
	row := s.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetString(value)
}

func money(s *xlsx.Sheet, label string, v decimal.Decimal) {
	row := s.AddRow()
	row.AddCell().SetString(label)
	row.AddCell().SetFloat(v.Round(2).InexactFloat64())
}
