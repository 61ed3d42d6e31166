package contact

import "time"

const (
	StatusUnread  = "unread"
	StatusRead    = "read"
	StatusReplied = "replied"
)

type Message struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Phone     string    `bson:"phone,omitempty" json:"phone,omitempty"`
	Subject   string    `bson:"subject" json:"subject"`
	Body      string    `bson:"body" json:"body"`
	Status    string    `bson:"status" json:"status"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func ValidStatus(status string) bool {
	switch status {
	case StatusUnread, StatusRead, StatusReplied:
		return true
	}
	return false
}

type ListFilter struct {
	Status string
	Search string
}

type CreateRequest struct {
	Name    string `json:"name" validate:"required,min=2,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Subject string `json:"subject" validate:"required,min=2,max=200"`
	Body    string `json:"body" validate:"required,min=10,max=2000"`
}

type Stats struct {
	Total   int64 `json:"total"`
	Unread  int64 `json:"unread"`
	Read    int64 `json:"read"`
	Replied int64 `json:"replied"`
}
