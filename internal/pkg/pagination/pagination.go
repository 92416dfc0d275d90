package pagination

import "strconv"

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

type Params struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into usable values.
func (p *Params) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// FromQuery reads "page" and "limit" query values, ignoring malformed ones.
func FromQuery(page, limit string) Params {
	var p Params
	if v, err := strconv.Atoi(page); err == nil {
		p.Page = v
	}
	if v, err := strconv.Atoi(limit); err == nil {
		p.Limit = v
	}
	p.Normalize()
	return p
}

type Meta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func NewMeta(p Params, total int64) Meta {
	pages := 0
	if p.Limit > 0 {
		pages = int((total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	return Meta{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: pages}
}
