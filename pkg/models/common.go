package models

// APIResponse is the envelope shape the storefront backend wraps payloads in.
// Token is only set by the login endpoint.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Token      string      `json:"token,omitempty"`
}

// Pagination represents pagination metadata
type Pagination struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Total      int `json:"total"`
	Limit      int `json:"limit,omitempty"`
}

// Normalize clamps the pagination so that 1 <= Page <= max(TotalPages, 1)
// and counts are never negative.
func (p Pagination) Normalize() Pagination {
	if p.TotalPages < 0 {
		p.TotalPages = 0
	}
	if p.Total < 0 {
		p.Total = 0
	}
	maxPage := p.TotalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

// SetTotalCount updates pagination with total count and calculates total pages
func SetTotalCount(pagination *Pagination, totalCount int) {
	pagination.Total = totalCount
	if pagination.Limit > 0 {
		pagination.TotalPages = (totalCount + pagination.Limit - 1) / pagination.Limit
	}
}

// Common validation constants
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)
