package models

import "time"

// CartLine defines the struct for the 'cart_lines' table.
// One row per (cart, product); the row is removed instead of reaching a zero count.
type CartLine struct {
	CartID      string    `json:"cartId" gorm:"primaryKey;size:128"`
	ProductID   uint      `json:"productId" gorm:"primaryKey;autoIncrement:false"`
	Count       int       `json:"count" gorm:"not null"`
	DateCreated time.Time `json:"dateCreated"`

	Product Product `json:"product" gorm:"foreignKey:ProductID"`
}
