package models

import (
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

// Category defines the struct for the 'categories' table
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:100;not null"`
	Slug string `json:"slug" gorm:"size:120;uniqueIndex"`

	// Joins (populated with Preload)
	Products []Product `json:"products,omitempty"`
}

// BeforeSave keeps the slug in step with the name.
func (c *Category) BeforeSave(tx *gorm.DB) error {
	c.Slug = slug.Make(c.Name)
	return nil
}

// --- API Input Structs ---

type CategoryInput struct {
	Name string `json:"name" binding:"required"`
}
