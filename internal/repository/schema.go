package repository

import "safaribook/internal/database"

// Schema lists the tables the application expects, base tables first.
// Booking columns are the ones added after the first deployments. Early
// databases stored images as TEXT[]; those columns become JSON text.
func Schema() []database.TableSpec {
	return []database.TableSpec{
		{Name: "users", Model: &userModel{}, Columns: []string{"phone", "is_admin"}},
		{Name: "cities", Model: &cityModel{}},
		{
			Name:        "hotels",
			Model:       &hotelModel{},
			Columns:     []string{"slug", "discount_percent"},
			TextColumns: []string{"images"},
		},
		{
			Name:        "safaris",
			Model:       &safariModel{},
			Columns:     []string{"slug", "duration", "discount_percent"},
			TextColumns: []string{"images"},
		},
		{
			Name:    "bookings",
			Model:   &bookingModel{},
			Columns: []string{"user_id", "user_type", "contact", "name", "email", "status", "time_slot"},
		},
		{Name: "reviews", Model: &reviewModel{}, TextColumns: []string{"images"}},
	}
}
