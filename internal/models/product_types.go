package models

import (
	"github.com/shopspring/decimal"
)

// Product is the model for the 'products' table.
// Quantity is the stock on hand.
type Product struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	Name       string          `json:"name" gorm:"size:200;not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(18,2);not null"`
	Details    string          `json:"details"`
	PictureURL string          `json:"pictureUrl"`
	Quantity   int             `json:"quantity"`
	CategoryID uint            `json:"categoryId" gorm:"index"`

	// Joins (Not in DB table, populated with Preload)
	Category *Category `json:"category,omitempty"`
}

// ProductInput defines the JSON accepted by the admin create/edit endpoints.
type ProductInput struct {
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price"`
	Details    string          `json:"details"`
	PictureURL string          `json:"pictureUrl"`
	Quantity   int             `json:"quantity" binding:"gte=0"`
	CategoryID uint            `json:"categoryId" binding:"required"`
}

// Apply copies the input onto p.
func (in ProductInput) Apply(p *Product) {
	p.Name = in.Name
	p.Price = in.Price
	p.Details = in.Details
	p.PictureURL = in.PictureURL
	p.Quantity = in.Quantity
	p.CategoryID = in.CategoryID
}
