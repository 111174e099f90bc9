package backend

import (
	"context"
	"encoding/json"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

// Dashboard returns the dashboard figures as sent by the backend.
func (c *Client) Dashboard(ctx context.Context) (map[string]json.RawMessage, error) {
	out := map[string]json.RawMessage{}
	if err := c.Get(ctx, "/reports/dashboard/", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) SalesReport(ctx context.Context, q model.SalesReportQuery) (*model.SalesReport, error) {
	if q.GroupBy == "" {
		q.GroupBy = "day"
	}
	var out model.SalesReport
	if err := c.Post(ctx, "/reports/sales/", q, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
