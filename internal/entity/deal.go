package entity

import (
	"database/sql"

	"github.com/google/uuid"
)

// db model
type DealRecord struct {
	Id         uuid.UUID      `json:"id" db:"id"`
	EntityKind string         `json:"entityKind" db:"entity_kind"`
	EntityId   uuid.UUID      `json:"entityId" db:"entity_id"`
	Verdict    string         `json:"verdict" db:"verdict"`
	CreatedAt  string         `json:"createdAt" db:"created_at"`
	ResolvedAt sql.NullString `json:"-" db:"resolved_at"`
	ResolvedBy uuid.NullUUID  `json:"-" db:"resolved_by"`
}

// service + repo input model
type SubmitDealInput struct {
	Kind     string // common.KindFarmerReq or common.KindConsumerReq
	EntityId string
	OwnerId  string
}

// controller model
type DealOutputModel struct {
	Id         string `json:"id"`
	EntityKind string `json:"entityKind"`
	EntityId   string `json:"entityId"`
	Verdict    string `json:"verdict"`
	CreatedAt  string `json:"createdAt"`
	ResolvedAt string `json:"resolvedAt,omitempty"`
	ResolvedBy string `json:"resolvedBy,omitempty"`
}
