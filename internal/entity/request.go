package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Request struct {
	Id           uuid.UUID       `json:"id" db:"id"`
	OwnerId      uuid.UUID       `json:"ownerId" db:"owner_id"`
	ProductName  string          `json:"productName" db:"product_name"`
	Quantity     int64           `json:"quantity" db:"quantity"`
	Unit         string          `json:"unit" db:"unit"`
	PricePerUnit decimal.Decimal `json:"pricePerUnit" db:"price_per_unit"`
	Currency     string          `json:"currency" db:"currency"`
	NeededBy     string          `json:"neededBy" db:"needed_by"`
	Description  string          `json:"description" db:"description"`
	AdminDeal    bool            `json:"adminDeal" db:"admin_deal"`
	CreatedAt    string          `json:"createdAt" db:"created_at"`
	UpdatedAt    string          `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateRequestInput struct {
	OwnerId      string
	ProductName  string
	Quantity     int64
	Unit         string
	PricePerUnit decimal.Decimal
	Currency     string
	NeededBy     string
	Description  string
}

type UpdateRequestInput struct {
	ProductName  string
	Quantity     *int64
	Unit         string
	PricePerUnit *decimal.Decimal
	Currency     string
	NeededBy     string
	Description  string
}

// controller model
type RequestOutputModel struct {
	Id           string `json:"id"`
	OwnerId      string `json:"ownerId"`
	ProductName  string `json:"productName"`
	Quantity     int64  `json:"quantity"`
	Unit         string `json:"unit"`
	PricePerUnit string `json:"pricePerUnit"`
	Currency     string `json:"currency"`
	NeededBy     string `json:"neededBy"`
	Description  string `json:"description"`
	AdminDeal    bool   `json:"adminDeal"`
	CreatedAt    string `json:"createdAt"`
}
