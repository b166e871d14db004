package domain

import "time"

type Review struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	ItemType  ItemKind  `json:"item_type"`
	ItemID    int64     `json:"item_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	Images    []string  `json:"images"`
	CreatedAt time.Time `json:"created_at"`
}
