package catalog

import "strings"

// Images accepts a JSON list or a single string.
type CreateHotelRequest struct {
	Name            string   `json:"name" validate:"required"`
	Slug            string   `json:"slug"`
	CitySlug        string   `json:"city_slug" validate:"required"`
	Price           float64  `json:"price" validate:"gte=0"`
	Rating          *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Description     string   `json:"description"`
	Images          any      `json:"images"`
	DiscountPercent int      `json:"discount_percent" validate:"gte=0,lte=100"`
}

// Title is an older alias of Name.
type CreateSafariRequest struct {
	Name            string  `json:"name" validate:"required"`
	Title           string  `json:"title"`
	Slug            string  `json:"slug"`
	CitySlug        string  `json:"city_slug" validate:"required"`
	Price           float64 `json:"price" validate:"gte=0"`
	Duration        string  `json:"duration"`
	Description     string  `json:"description"`
	Images          any     `json:"images"`
	DiscountPercent int     `json:"discount_percent" validate:"gte=0,lte=100"`
}

func (r *CreateSafariRequest) normalize() {
	if strings.TrimSpace(r.Name) == "" {
		r.Name = r.Title
	}
}
