package entity

import (
	"github.com/google/uuid"
)

// db model
type Announcement struct {
	Id        uuid.UUID `json:"id" db:"id"`
	AdminId   uuid.UUID `json:"adminId" db:"admin_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
}

// controller model
type AnnouncementOutputModel struct {
	Id        string `json:"id"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	CreatedAt string `json:"createdAt"`
}
