package entity

import (
	"github.com/google/uuid"
)

// db model; append-only, there is no update path through the API
type AuditLogEntry struct {
	Id        uuid.UUID `json:"id" db:"id"`
	AdminId   uuid.UUID `json:"adminId" db:"admin_id"`
	Action    string    `json:"action" db:"action"`
	Reason    string    `json:"reason" db:"reason"`
	CreatedAt string    `json:"createdAt" db:"created_at"`
}

// repo input model; inserted inside the transaction of the action it records
type AuditEntryInput struct {
	AdminId string
	Action  string
	Reason  string
}

// query filter; zero values mean "no constraint"
type AuditFilter struct {
	Action  string
	AdminId string
	From    string // RFC3339, inclusive
	To      string // RFC3339, exclusive
}

// controller model
type AuditLogOutputModel struct {
	Id        string `json:"id"`
	AdminId   string `json:"adminId"`
	Action    string `json:"action"`
	Reason    string `json:"reason,omitempty"`
	CreatedAt string `json:"createdAt"`
}
