package server

import (
	"github.com/gofiber/fiber/v2"
)

// PageParams is the normalized page/limit pair parsed from the query
// string. Page is 1-based.
type PageParams struct {
	Page  int
	Limit int
}

func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is the envelope every list endpoint returns.
type Page[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	PageNumber int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func newPage[T any](items []T, total int, params PageParams) Page[T] {
	if items == nil {
		items = []T{}
	}

	totalPages := 0
	if params.Limit > 0 {
		totalPages = (total + params.Limit - 1) / params.Limit
	}

	return Page[T]{
		Items:      items,
		Total:      total,
		PageNumber: params.Page,
		Limit:      params.Limit,
		TotalPages: totalPages,
	}
}

// pageParams clamps query paging to configured bounds: page >= 1,
// 1 <= limit <= max.
func (s *Server) pageParams(c *fiber.Ctx) PageParams {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}

	limit := c.QueryInt("limit", s.cfg.Pagination.DefaultPageSize)
	if limit < 1 {
		limit = s.cfg.Pagination.DefaultPageSize
	}
	if limit > s.cfg.Pagination.MaxPageSize {
		limit = s.cfg.Pagination.MaxPageSize
	}

	return PageParams{Page: page, Limit: limit}
}
