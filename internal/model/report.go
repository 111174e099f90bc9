package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type SalesReportQuery struct {
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	IncludeDetails bool   `json:"include_details"`
	GroupBy        string `json:"group_by"`
}

type SalesReport struct {
	Summary   SalesSummary       `json:"summary"`
	ChartData []SalesChartPoint  `json:"chart_data"`
	Details   []SalesReportEntry `json:"details"`
}

type SalesSummary struct {
	TotalSales decimal.Decimal `json:"total_sales"`
	TotalCount int             `json:"total_count"`
	TotalItems decimal.Decimal `json:"total_items"`
}

// AverageSale is zero when there were no sales.
func (s SalesSummary) AverageSale() decimal.Decimal {
	if s.TotalCount == 0 {
		return decimal.Zero
	}
	return s.TotalSales.Div(decimal.NewFromInt(int64(s.TotalCount))).Round(2)
}

type SalesChartPoint struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

type SalesReportEntry struct {
	ID           int64           `json:"id"`
	SaleNumber   string          `json:"sale_number"`
	CustomerName string          `json:"customer_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	SoldBy       string          `json:"sold_by"`
	CreatedAt    time.Time       `json:"created_at"`
	ItemsCount   int             `json:"items_count"`
}
