package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	BookingType string `json:"booking_type" validate:"required"`
	ItemID      int64  `json:"item_id" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
}

func TestValidate_UsesJSONNames(t *testing.T) {
	errs := Validate(sample{Email: "not-an-email"})

	assert.Equal(t, "required", errs["booking_type"])
	assert.Equal(t, "required", errs["item_id"])
	assert.Equal(t, "email", errs["email"])
	assert.Equal(t, []string{"booking_type", "item_id"}, Missing(errs))
}

func TestValidate_OK(t *testing.T) {
	assert.Nil(t, Validate(sample{BookingType: "hotel", ItemID: 1}))
}
