package models

import (
	"encoding/json"
	"fmt"
)

// Pagination describes list metadata returned alongside collections.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// ListFilter carries the common paging and sorting options for list endpoints.
type ListFilter struct {
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// MaxPage bounds the page number so the derived offset never overflows.
const MaxPage = 1_000_000

// Normalize clamps paging values to sane defaults and returns page, size and offset.
func (f ListFilter) Normalize() (int, int, int) {
	page := f.Page
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	size := f.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return page, size, (page - 1) * size
}

// NewPagination builds pagination metadata for the filter.
func NewPagination(f ListFilter, total int) *Pagination {
	page, size, _ := f.Normalize()
	return &Pagination{Page: page, PageSize: size, TotalCount: total}
}

func marshalJSONColumn(v interface{}, name string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", name, err)
	}
	return data, nil
}

func scanJSONColumn(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for %s", value, name)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
