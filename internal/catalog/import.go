package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/01moynul/valuefurniture-golang/internal/report"
	"gorm.io/gorm"
)

var ErrInvalidImport = errors.New("price and quantity must not be negative")

// ImportResult counts what an import changed.
type ImportResult struct {
	Updated int    `json:"updated"`
	Unknown []uint `json:"unknown"`
}

// Import applies rows read from a product workbook to the existing products
// in one transaction. Ids that do not exist are reported, not created. One
// invalid row rolls the whole import back.
func (s *Store) Import(ctx context.Context, rows []report.ProductRow) (*ImportResult, error) {
	res := &ImportResult{Unknown: []uint{}}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range rows {
			if r.Price.IsNegative() || r.Quantity < 0 {
				return fmt.Errorf("product %d: %w", r.ID, ErrInvalidImport)
			}

			// MySQL counts unchanged rows as unaffected, so look first.
			var found int64
			if err := tx.Model(&models.Product{}).Where("id = ?", r.ID).Count(&found).Error; err != nil {
				return fmt.Errorf("look up product %d: %w", r.ID, err)
			}
			if found == 0 {
				res.Unknown = append(res.Unknown, r.ID)
				continue
			}

			err := tx.Model(&models.Product{}).Where("id = ?", r.ID).Updates(map[string]interface{}{
				"name":     r.Name,
				"details":  r.Details,
				"price":    r.Price,
				"quantity": r.Quantity,
			}).Error
			if err != nil {
				return fmt.Errorf("update product %d: %w", r.ID, err)
			}
			res.Updated++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
