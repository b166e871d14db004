package booking

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// CreateBookingRequest is the public booking form. Required fields are
// checked by the service so every missing field can be reported at once.
type CreateBookingRequest struct {
	BookingType string  `json:"booking_type"`
	ItemID      FlexInt `json:"item_id"`
	StartDate   string  `json:"start_date"`
	EndDate     string  `json:"end_date"`
	Guests      FlexInt `json:"guests"`
	Contact     string  `json:"contact"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	TimeSlot    string  `json:"time_slot"`
}

type UpdateStatusRequest struct {
	Status string   `json:"status" binding:"required"`
	Amount *float64 `json:"amount"`
}

type DeleteBookingResponse struct {
	Success bool        `json:"success"`
	Deleted interface{} `json:"deleted"`
}

// FlexInt accepts 7, "7" and null. Browser forms often send numbers as strings.
type FlexInt int64

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	var n json.Number
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n = json.Number(s)
	} else {
		n = json.Number(data)
	}

	v, err := strconv.ParseInt(n.String(), 10, 64)
	if err != nil {
		return fmt.Errorf("not an integer: %s", n)
	}
	*f = FlexInt(v)
	return nil
}
