package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Listing struct {
	Id             uuid.UUID       `json:"id" db:"id"`
	OwnerId        uuid.UUID       `json:"ownerId" db:"owner_id"`
	ProductName    string          `json:"productName" db:"product_name"`
	Quantity       int64           `json:"quantity" db:"quantity"`
	Unit           string          `json:"unit" db:"unit"`
	PricePerUnit   decimal.Decimal `json:"pricePerUnit" db:"price_per_unit"`
	Currency       string          `json:"currency" db:"currency"`
	AvailableFrom  string          `json:"availableFrom" db:"available_from"`
	AvailableUntil string          `json:"availableUntil" db:"available_until"`
	Description    string          `json:"description" db:"description"`
	AdminDeal      bool            `json:"adminDeal" db:"admin_deal"`
	CreatedAt      string          `json:"createdAt" db:"created_at"`
	UpdatedAt      string          `json:"updatedAt" db:"updated_at"`
}

// service + repo input model
type CreateListingInput struct {
	OwnerId        string
	ProductName    string
	Quantity       int64
	Unit           string
	PricePerUnit   decimal.Decimal
	Currency       string
	AvailableFrom  string // RFC3339 date
	AvailableUntil string
	Description    string
	// Id and CreatedAt set automatically
}

type UpdateListingInput struct {
	ProductName    string
	Quantity       *int64 // nil means keep current; owner-only unconditional set
	Unit           string
	PricePerUnit   *decimal.Decimal
	Currency       string
	AvailableFrom  string
	AvailableUntil string
	Description    string
}

// controller model
type ListingOutputModel struct {
	Id             string `json:"id"`
	OwnerId        string `json:"ownerId"`
	ProductName    string `json:"productName"`
	Quantity       int64  `json:"quantity"`
	Unit           string `json:"unit"`
	PricePerUnit   string `json:"pricePerUnit"`
	Currency       string `json:"currency"`
	AvailableFrom  string `json:"availableFrom"`
	AvailableUntil string `json:"availableUntil"`
	Description    string `json:"description"`
	AdminDeal      bool   `json:"adminDeal"`
	CreatedAt      string `json:"createdAt"`
}
