package dto

type ProductFilters struct {
	CategoryID  int64
	IsActive    *bool
	SearchQuery string // name or sku
	SortBy      string // name, price, stock
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}
