package database

import (
	"context"
	"fmt"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	name, details, picture string
	price                  int64
	quantity               int
	category               string
}

var seedCategories = []string{"Table", "Chair", "Wardrobe", "Chest of Drawers"}

var seedProducts = []seedProduct{
	{"Lerhamn", "Light antique stain/white stain", "", 39, 5, "Table"},
	{"Bjursta", "Oak veneer", "", 150, 3, "Table"},
	{"Bekant", "10 year guarantee. Read about the terms in the guarantee brochure.", "", 140, 1, "Table"},
	{"Mockelby", "Table with a top layer of solid wood.", "", 300, 2, "Table"},
	{"Stornas", "1 extension leaf included.", "", 225, 12, "Table"},
	{"Ingatorp", "2 extension leafs included.", "", 250, 4, "Table"},
	{"Lack", "Separate shelf for magazines.", "", 16, 17, "Table"},
	{"Torkel", "You sit comfortably since the chair is adjustable in height.", "", 35, 2, "Chair"},
	{"Millberget", "Adjustable tilt tension allows to adjust resistance to suit movements.", "", 49, 3, "Chair"},
	{"Volmar", "Seat and backrest adjustable in height.", "/Pictures/Volmar.jpg", 175, 11, "Chair"},
	{"Flintan", "You can lean back with perfect balance.", "/Pictures/Flintan.jpg", 49, 3, "Chair"},
	{"Hermnes", "Made of solid wood and warm natural material.", "", 260, 8, "Wardrobe"},
	{"Tyssedal", "Hinges with integrated dampers catch the door and close it slowly, and softly.", "", 275, 15, "Wardrobe"},
	{"Brimnes", "The mirror door can be placed on the left side, right side or in the middle.", "", 140, 7, "Wardrobe"},
	{"Malm", "A chest of drawers.", "/Pictures/Malm.jpg", 35, 7, "Chest of Drawers"},
	{"Hemnes", "Home should be a safe place. Hence a safety fitting is included.", "/Pictures/HemnesChest.jpg", 90, 5, "Chest of Drawers"},
	{"Kullen", "Oak chest of drawers.", "/Pictures/Kullen.jpg", 20, 12, "Chest of Drawers"},
}

// Seed fills an empty store with the demo accounts and catalog. A store that
// already has users is left untouched and Seed reports false.
func Seed(ctx context.Context, db *gorm.DB) (bool, error) {
	var users int64
	if err := db.WithContext(ctx).Model(&models.User{}).Count(&users).Error; err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if users > 0 {
		return false, nil
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. --- Accounts (password = email) ---
		accounts := []struct{ email, first, last, role string }{
			{"admin@admin.com", "System", "Administrator", models.RoleAdministrator},
			{"test@test.com", "Test", "User", models.RoleUser},
		}
		for _, a := range accounts {
			var pw models.Password
			if err := pw.Set(a.email); err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			u := models.User{
				ID:           uuid.NewString(),
				UserName:     a.email,
				Email:        a.email,
				PasswordHash: pw.Hash,
				FirstName:    a.first,
				Surname:      a.last,
				Role:         a.role,
				CreatedAt:    time.Now(),
			}
			if err := tx.Create(&u).Error; err != nil {
				return fmt.Errorf("create user %s: %w", a.email, err)
			}
		}

		// 2. --- Categories ---
		ids := map[string]uint{}
		for _, name := range seedCategories {
			c := models.Category{Name: name}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("create category %s: %w", name, err)
			}
			ids[name] = c.ID
		}

		// 3. --- Products ---
		for _, sp := range seedProducts {
			p := models.Product{
				Name:       sp.name,
				Price:      decimal.NewFromInt(sp.price),
				Details:    sp.details,
				PictureURL: sp.picture,
				Quantity:   sp.quantity,
				CategoryID: ids[sp.category],
			}
			if err := tx.Create(&p).Error; err != nil {
				return fmt.Errorf("create product %s: %w", sp.name, err)
			}
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
