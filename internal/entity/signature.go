package entity

import (
	"time"

	"github.com/google/uuid"
)

// Signature is a reusable HTML snippet appended to outreach emails.
type Signature struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewSignature(userID, name, content string) *Signature {
	now := time.Now().UTC()
	return &Signature{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
