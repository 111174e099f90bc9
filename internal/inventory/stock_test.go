package inventory

import (
	"testing"

	"github.com/fekuna/omnipos-pos-client/internal/model"
)

func TestStockStatus(t *testing.T) {
	tests := []struct {
		stock, min string
		want       Status
	}{
		{"0", "5", StatusOut},
		{"-2", "5", StatusOut},
		{"5", "5", StatusLow},
		{"3", "5", StatusLow},
		{"6", "5", StatusOK},
		{"1", "0", StatusOK},
	}
	for _, tt := range tests {
		p := &model.Product{StockQuantity: d(tt.stock), MinStockLevel: d(tt.min)}
		if got := StockStatus(p); got != tt.want {
			t.Errorf("StockStatus(stock=%s, min=%s) = %s, want %s", tt.stock, tt.min, got, tt.want)
		}
	}
}

func TestFilter(t *testing.T) {
	products := []model.Product{
		{ID: 1, StockQuantity: d("0"), MinStockLevel: d("5")},
		{ID: 2, StockQuantity: d("4"), MinStockLevel: d("5")},
		{ID: 3, StockQuantity: d("40"), MinStockLevel: d("5")},
		{ID: 4, StockQuantity: d("2"), MinStockLevel: d("5")},
	}
	low := Filter(products, StatusLow)
	if len(low) != 2 || low[0].ID != 2 || low[1].ID != 4 {
		t.Errorf("low = %+v", low)
	}
	if all := Filter(products, ""); len(all) != 4 {
		t.Errorf("empty status kept %d", len(all))
	}
}
