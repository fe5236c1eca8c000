package entity

import (
	"database/sql"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Bid struct {
	Id         uuid.UUID       `json:"id" db:"id"`
	TargetKind string          `json:"targetKind" db:"target_kind"`
	TargetId   uuid.UUID       `json:"targetId" db:"target_id"`
	BidderId   uuid.UUID       `json:"bidderId" db:"bidder_id"`
	Quantity   int64           `json:"quantity" db:"quantity"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Message    string          `json:"message" db:"message"`
	Status     string          `json:"status" db:"status"`
	CreatedAt  string          `json:"createdAt" db:"created_at"`
	SettledAt  sql.NullString  `json:"-" db:"settled_at"`
}

// service + repo input model
type PlaceBidInput struct {
	TargetKind string // given
	TargetId   string // given
	BidderId   string // given
	Quantity   int64  // given
	Price      decimal.Decimal
	Message    string
	// Status should be set: "Pending"
	// Id and CreatedAt set automatically
}

// controller model
type BidOutputModel struct {
	Id         string `json:"id"`
	TargetKind string `json:"targetKind"`
	TargetId   string `json:"targetId"`
	BidderId   string `json:"bidderId"`
	Quantity   int64  `json:"quantity"`
	Price      string `json:"price"`
	Message    string `json:"message,omitempty"`
	Status     string `json:"status"`
	CreatedAt  string `json:"createdAt"`
	SettledAt  string `json:"settledAt,omitempty"`
}
