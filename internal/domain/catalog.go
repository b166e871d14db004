package domain

import "time"

type City struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Hotel struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	CitySlug        string    `json:"city_slug"`
	Price           float64   `json:"price"`
	Rating          *float64  `json:"rating,omitempty"`
	Description     string    `json:"description,omitempty"`
	Images          []string  `json:"images"`
	DiscountPercent int       `json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

type Safari struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Slug            string    `json:"slug"`
	CitySlug        string    `json:"city_slug"`
	Price           float64   `json:"price"`
	Duration        string    `json:"duration,omitempty"`
	Description     string    `json:"description,omitempty"`
	Images          []string  `json:"images"`
	DiscountPercent int       `json:"discount_percent"`
	CreatedAt       time.Time `json:"created_at"`
}

// DiscountedPrice applies a whole-number percentage discount.
func DiscountedPrice(price float64, discountPercent int) float64 {
	if discountPercent <= 0 {
		return price
	}
	if discountPercent >= 100 {
		return 0
	}
	return price * float64(100-discountPercent) / 100
}
