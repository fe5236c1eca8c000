package entity

import (
	"github.com/google/uuid"
)

// db model
type User struct {
	Id        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Role      string    `json:"role" db:"role"`
	Verified  bool      `json:"verified" db:"verified"`
	Suspended bool      `json:"suspended" db:"suspended"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
}

// controller model
type UserOutputModel struct {
	Id        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Verified  bool   `json:"verified"`
	Suspended bool   `json:"suspended"`
	CreatedAt string `json:"createdAt"`
}
