package blogs

import "time"

type Blog struct {
	ID              string     `bson:"_id,omitempty" json:"id"`
	Title           string     `bson:"title" json:"title"`
	Slug            string     `bson:"slug" json:"slug"`
	Content         string     `bson:"content" json:"content"`
	Excerpt         string     `bson:"excerpt" json:"excerpt"`
	Author          string     `bson:"author" json:"author"`
	Category        string     `bson:"category" json:"category"`
	Tags            []string   `bson:"tags" json:"tags"`
	Published       bool       `bson:"published" json:"published"`
	PublishedAt     *time.Time `bson:"publishedAt,omitempty" json:"publishedAt,omitempty"`
	Featured        bool       `bson:"featured" json:"featured"`
	Views           int64      `bson:"views" json:"views"`
	ReadTime        int        `bson:"readTime" json:"readTime"`
	MetaDescription string     `bson:"metaDescription,omitempty" json:"metaDescription,omitempty"`
	CreatedAt       time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time  `bson:"updatedAt" json:"updatedAt"`
}

type ListFilter struct {
	Category  string
	Published *bool
	Featured  *bool
}

type UpsertRequest struct {
	Title           string   `json:"title" validate:"required,min=2,max=200"`
	Content         string   `json:"content" validate:"required"`
	Excerpt         string   `json:"excerpt" validate:"omitempty,max=500"`
	Author          string   `json:"author" validate:"required,min=2,max=100"`
	Category        string   `json:"category" validate:"required,min=2,max=100"`
	Tags            []string `json:"tags" validate:"omitempty,dive,min=1,max=50"`
	Published       *bool    `json:"published"`
	Featured        *bool    `json:"featured"`
	ReadTime        *int     `json:"readTime" validate:"omitempty,min=1,max=120"`
	MetaDescription string   `json:"metaDescription" validate:"omitempty,max=300"`
}

type Stats struct {
	Published  int64 `json:"published"`
	Drafts     int64 `json:"drafts"`
	TotalViews int64 `json:"totalViews"`
}
