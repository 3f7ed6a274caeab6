package pagination

import (
	"github.com/gofiber/fiber/v2"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Pagination struct {
	Page   int
	Limit  int
	Offset int
	Total  int64
}

// Meta is the paging block rendered next to a page of results.
type Meta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int64 `json:"total_pages"`
}

// ParseFromRequest reads ?page and ?limit, falling back to page 1 and the
// default limit when either is missing or out of range.
func ParseFromRequest(c *fiber.Ctx) Pagination {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 || limit > maxLimit {
		limit = defaultLimit
	}
	return Pagination{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// Slice pages through an already loaded collection, such as a cached
// projection, and records its size in p.
func Slice[T any](items []T, p *Pagination) []T {
	p.Total = int64(len(items))
	if p.Offset >= len(items) {
		return []T{}
	}
	return items[p.Offset:min(p.Offset+p.Limit, len(items))]
}

func (p Pagination) TotalPages() int64 {
	limit := int64(p.Limit)
	return (p.Total + limit - 1) / limit
}

// Response wraps one page of data with its Meta.
func Response(p Pagination, data any) fiber.Map {
	return fiber.Map{
		"data": data,
		"meta": Meta{
			CurrentPage: p.Page,
			PerPage:     p.Limit,
			TotalItems:  p.Total,
			TotalPages:  p.TotalPages(),
		},
	}
}
