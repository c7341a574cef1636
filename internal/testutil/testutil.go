// Package testutil builds throwaway SQLite-backed stores for package tests.
package testutil

import (
	"testing"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/database"
	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an in-memory database with every storefront table migrated.
// The pool is pinned to one connection so all statements see the same memory DB.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

// Category inserts a category.
func Category(t testing.TB, db *gorm.DB, name string) *models.Category {
	t.Helper()
	c := &models.Category{Name: name}
	if err := db.Create(c).Error; err != nil {
		t.Fatalf("Failed to create category: %v", err)
	}
	return c
}

// Product inserts a product priced from a decimal string.
func Product(t testing.TB, db *gorm.DB, categoryID uint, name, price string, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Quantity:   stock,
		CategoryID: categoryID,
	}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("Failed to create product: %v", err)
	}
	return p
}

// User inserts a customer. An empty phone leaves PhoneNumber nil.
func User(t testing.TB, db *gorm.DB, email, firstName, phone string) *models.User {
	t.Helper()
	u := &models.User{
		ID:        uuid.NewString(),
		UserName:  email,
		Email:     email,
		FirstName: firstName,
		Surname:   "Tester",
		Role:      models.RoleUser,
		CreatedAt: time.Now(),
	}
	if phone != "" {
		u.PhoneNumber = &phone
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("Failed to create user: %v", err)
	}
	return u
}

// Stock reloads a product's stock count.
func Stock(t testing.TB, db *gorm.DB, productID uint) int {
	t.Helper()
	var p models.Product
	if err := db.First(&p, productID).Error; err != nil {
		t.Fatalf("Failed to reload product %d: %v", productID, err)
	}
	return p.Quantity
}
