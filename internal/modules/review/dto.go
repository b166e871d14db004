package review

type CreateReviewRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=hotel safari"`
	ItemID   int64  `json:"item_id" validate:"required,gt=0"`
	Rating   int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment  string `json:"comment,omitempty" validate:"max=4000"`
	Images   any    `json:"images,omitempty"`
}
