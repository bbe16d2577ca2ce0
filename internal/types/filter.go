package types

import (
	"github.com/samber/lo"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

const (
	FilterDefaultLimit  = 50
	FilterMaxLimit      = 1000
	FilterDefaultOffset = 0
	FilterDefaultOrder  = "desc"
	FilterDefaultSort   = "created_at"
)

// QueryFilter carries the common pagination and ordering options shared by
// every list operation.
type QueryFilter struct {
	Limit  *int    `json:"limit,omitempty" form:"limit"`
	Offset *int    `json:"offset,omitempty" form:"offset"`
	Status *Status `json:"status,omitempty" form:"status"`
	Sort   *string `json:"sort,omitempty" form:"sort"`
	Order  *string `json:"order,omitempty" form:"order"`
}

// NewDefaultQueryFilter returns a filter with the default pagination options.
func NewDefaultQueryFilter() *QueryFilter {
	return &QueryFilter{
		Limit:  lo.ToPtr(FilterDefaultLimit),
		Offset: lo.ToPtr(FilterDefaultOffset),
		Status: lo.ToPtr(StatusPublished),
		Sort:   lo.ToPtr(FilterDefaultSort),
		Order:  lo.ToPtr(FilterDefaultOrder),
	}
}

// NewNoLimitQueryFilter returns a filter without pagination, for internal
// full scans.
func NewNoLimitQueryFilter() *QueryFilter {
	return &QueryFilter{
		Offset: lo.ToPtr(FilterDefaultOffset),
		Status: lo.ToPtr(StatusPublished),
		Sort:   lo.ToPtr(FilterDefaultSort),
		Order:  lo.ToPtr(FilterDefaultOrder),
	}
}

func (f *QueryFilter) GetLimit() int {
	if f == nil || f.Limit == nil {
		return 0
	}
	return *f.Limit
}

func (f *QueryFilter) GetOffset() int {
	if f == nil || f.Offset == nil {
		return FilterDefaultOffset
	}
	return *f.Offset
}

func (f *QueryFilter) GetStatus() Status {
	if f == nil || f.Status == nil {
		return StatusPublished
	}
	return *f.Status
}

func (f *QueryFilter) GetSort() string {
	if f == nil || f.Sort == nil {
		return FilterDefaultSort
	}
	return *f.Sort
}

func (f *QueryFilter) GetOrder() string {
	if f == nil || f.Order == nil {
		return FilterDefaultOrder
	}
	return *f.Order
}

func (f *QueryFilter) IsUnlimited() bool {
	return f == nil || f.Limit == nil
}

// Validate validates the pagination options.
func (f *QueryFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.Limit != nil && (*f.Limit < 0 || *f.Limit > FilterMaxLimit) {
		return ierr.NewErrorf("limit must be between 0 and %d", FilterMaxLimit).
			WithHint("Invalid pagination limit").
			Mark(ierr.ErrValidation)
	}
	if f.Offset != nil && *f.Offset < 0 {
		return ierr.NewError("offset must be non-negative").
			WithHint("Invalid pagination offset").
			Mark(ierr.ErrValidation)
	}
	if f.Order != nil && *f.Order != "asc" && *f.Order != "desc" {
		return ierr.NewError("order must be asc or desc").
			WithHint("Invalid sort order").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PaginationResponse is the list envelope returned by every list endpoint.
type PaginationResponse struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

func NewPaginationResponse(total, limit, offset int) PaginationResponse {
	return PaginationResponse{Total: total, Limit: limit, Offset: offset}
}
