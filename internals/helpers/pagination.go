package helper

import (
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

type Pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
	HasPrev    bool  `json:"has_prev"`
	Count      int   `json:"count"`
}

type Paging struct {
	Page    int
	PerPage int
	Offset  int
	Limit   int
}

type PagingOptions struct {
	DefaultPerPage int
	MaxPerPage     int
}

var DefaultPaging = PagingOptions{DefaultPerPage: 25, MaxPerPage: 200}

// NewPaging normalises raw page / per_page values.
func NewPaging(page, perPage int, opt PagingOptions) Paging {
	if page < 1 {
		page = 1
	}
	if perPage <= 0 {
		perPage = opt.DefaultPerPage
	}
	if perPage <= 0 {
		perPage = DefaultPaging.DefaultPerPage
	}
	if opt.MaxPerPage > 0 && perPage > opt.MaxPerPage {
		perPage = opt.MaxPerPage
	}
	// keeps the offset inside int and inside a postgres bigint
	if maxPage := math.MaxInt32/perPage + 1; page > maxPage {
		page = maxPage
	}
	return Paging{
		Page:    page,
		PerPage: perPage,
		Offset:  (page - 1) * perPage,
		Limit:   perPage,
	}
}

// ResolvePaging reads ?page= and ?per_page= (or the ?limit= alias).
func ResolvePaging(c *fiber.Ctx, opt PagingOptions) Paging {
	page, _ := strconv.Atoi(strings.TrimSpace(c.Query("page", "1")))

	perPageStr := strings.TrimSpace(c.Query("per_page"))
	if perPageStr == "" {
		perPageStr = strings.TrimSpace(c.Query("limit"))
	}
	perPage, _ := strconv.Atoi(perPageStr)

	return NewPaging(page, perPage, opt)
}

func BuildPagination(total int64, p Paging) Pagination {
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = DefaultPaging.DefaultPerPage
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	return Pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}

// ParseSortOrder accepts asc|desc, anything else falls back to def.
func ParseSortOrder(raw, def string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc":
		return "asc"
	case "desc":
		return "desc"
	}
	return def
}
