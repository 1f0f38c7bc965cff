// Package pagination implements the list contract shared by every
// index/search operation: (limit, page) where page is a 1-based page
// number and a nil limit means "return everything" as one page.
package pagination

import (
	"gorm.io/gorm"

	"idm_backend/pkg/apperrors"
)

type Params struct {
	Limit *int `form:"limit" json:"limit"`
	Page  *int `form:"page" json:"page"`
}

// Validate rejects malformed parameters before any query executes.
func (p Params) Validate() error {
	fields := make(map[string]string)
	if p.Limit != nil && *p.Limit < 1 {
		fields["limit"] = "Must be at least 1"
	}
	if p.Page != nil && *p.Page < 1 {
		fields["page"] = "Must be at least 1"
	}
	if len(fields) > 0 {
		return apperrors.InvalidPagination(fields)
	}
	return nil
}

// PageNumber returns the effective 1-based page.
func (p Params) PageNumber() int {
	if p.Page == nil {
		return 1
	}
	return *p.Page
}

// Apply scopes the query to the requested page. With a nil limit the
// query is returned untouched, producing the single full-result page.
func Apply(q *gorm.DB, p Params) *gorm.DB {
	if p.Limit == nil {
		return q
	}
	return q.Limit(*p.Limit).Offset((p.PageNumber() - 1) * *p.Limit)
}

// Result is a materialized page plus enough metadata to render
// paginator links.
type Result struct {
	Items    interface{} `json:"items"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PerPage  int         `json:"per_page"`
	LastPage int         `json:"last_page"`
}

func NewResult(items interface{}, total int64, p Params) Result {
	perPage := int(total)
	lastPage := 1
	if p.Limit != nil {
		perPage = *p.Limit
		lastPage = int((total + int64(perPage) - 1) / int64(perPage))
		if lastPage < 1 {
			lastPage = 1
		}
	}
	return Result{
		Items:    items,
		Total:    total,
		Page:     p.PageNumber(),
		PerPage:  perPage,
		LastPage: lastPage,
	}
}
