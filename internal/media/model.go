package media

import "time"

const (
	TypeImage = "image"
	TypeVideo = "video"

	CategoryWedding  = "wedding"
	CategoryPortrait = "portrait"
	CategoryEvent    = "event"
	CategoryOther    = "other"
)

type Item struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Title        string    `bson:"title" json:"title"`
	Description  string    `bson:"description,omitempty" json:"description,omitempty"`
	Type         string    `bson:"type" json:"type"`
	Category     string    `bson:"category" json:"category"`
	URL          string    `bson:"url" json:"url"`
	ThumbnailURL string    `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Featured     bool      `bson:"featured" json:"featured"`
	SortOrder    int       `bson:"sortOrder" json:"sortOrder"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}

type ListFilter struct {
	Type     string
	Category string
	Featured *bool
}

type UpsertRequest struct {
	Title        string `json:"title" validate:"required,min=2,max=200"`
	Description  string `json:"description" validate:"omitempty,max=1000"`
	Type         string `json:"type" validate:"required,oneof=image video"`
	Category     string `json:"category" validate:"required,oneof=wedding portrait event other"`
	URL          string `json:"url" validate:"required,url"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	Featured     *bool  `json:"featured"`
	SortOrder    *int   `json:"sortOrder" validate:"omitempty,min=0"`
}
