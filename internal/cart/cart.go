// Package cart implements the session shopping cart: one row per
// (cart identifier, product) in the cart_lines table.
//
// Stock checks and stock updates are plain read-modify-write statements inside
// one unit of work; there is no row locking, so two concurrent adds of the last
// unit can both succeed.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("product out of stock")
	ErrLineNotFound    = errors.New("product is not in the cart")
)

// Cart is one cart identifier bound to a store.
type Cart struct {
	db *gorm.DB
	id string
}

// New returns the cart with the given identifier.
func New(db *gorm.DB, id string) *Cart {
	return &Cart{db: db, id: id}
}

// ID returns the cart identifier.
func (c *Cart) ID() string { return c.id }

// Add puts one unit of the product in the cart and takes one unit off stock.
// A product with no stock is rejected and nothing changes.
func (c *Cart) Add(ctx context.Context, productID uint) (*models.Product, error) {
	var product models.Product

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 1. --- Load product & check stock ---
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("load product %d: %w", productID, err)
		}
		if product.Quantity <= 0 {
			return ErrOutOfStock
		}

		// 2. --- Create or increment the line ---
		var line models.CartLine
		err := tx.Where("cart_id = ? AND product_id = ?", c.id, productID).First(&line).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			line = models.CartLine{
				CartID:      c.id,
				ProductID:   productID,
				Count:       1,
				DateCreated: time.Now(),
			}
			if err := tx.Create(&line).Error; err != nil {
				return fmt.Errorf("create cart line: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load cart line: %w", err)
		default:
			if err := tx.Model(&line).Update("count", line.Count+1).Error; err != nil {
				return fmt.Errorf("increment cart line: %w", err)
			}
		}

		// 3. --- Decrement stock ---
		product.Quantity--
		if err := tx.Model(&product).Update("quantity", product.Quantity).Error; err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// Remove takes one unit of the product out of the cart, deleting the line when
// it held a single unit, and puts the unit back in stock. It returns the count
// left on the line (0 once the line is gone) and the restocked product.
func (c *Cart) Remove(ctx context.Context, productID uint) (int, *models.Product, error) {
	var (
		remaining int
		product   models.Product
	)

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var line models.CartLine
		err := tx.Where("cart_id = ? AND product_id = ?", c.id, productID).First(&line).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrLineNotFound
			}
			return fmt.Errorf("load cart line: %w", err)
		}

		if line.Count > 1 {
			remaining = line.Count - 1
			if err := tx.Model(&line).Update("count", remaining).Error; err != nil {
				return fmt.Errorf("decrement cart line: %w", err)
			}
		} else {
			if err := tx.Delete(&line).Error; err != nil {
				return fmt.Errorf("delete cart line: %w", err)
			}
		}

		if err := tx.First(&product, productID).Error; err != nil {
			return fmt.Errorf("load product %d: %w", productID, err)
		}
		product.Quantity++
		if err := tx.Model(&product).Update("quantity", product.Quantity).Error; err != nil {
			return fmt.Errorf("restock product: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return remaining, &product, nil
}

// Items returns the cart lines with their products loaded.
func (c *Cart) Items(ctx context.Context) ([]models.CartLine, error) {
	return c.items(c.db.WithContext(ctx))
}

func (c *Cart) items(db *gorm.DB) ([]models.CartLine, error) {
	var lines []models.CartLine
	err := db.Preload("Product").
		Where("cart_id = ?", c.id).
		Order("date_created").
		Find(&lines).Error
	if err != nil {
		return nil, fmt.Errorf("load cart %s: %w", c.id, err)
	}
	return lines, nil
}

// Total is the sum of count × current product price over the cart's lines.
func (c *Cart) Total(ctx context.Context) (decimal.Decimal, error) {
	lines, err := c.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return LinesTotal(lines), nil
}

// LinesTotal sums count × price over already loaded lines.
func LinesTotal(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Count))))
	}
	return total
}

// Count is the number of units in the cart.
func (c *Cart) Count(ctx context.Context) (int, error) {
	var count int64
	err := c.db.WithContext(ctx).
		Model(&models.CartLine{}).
		Where("cart_id = ?", c.id).
		Select("COALESCE(SUM(count), 0)").
		Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("count cart %s: %w", c.id, err)
	}
	return int(count), nil
}

// Empty deletes every line of the cart.
func (c *Cart) Empty(ctx context.Context) error {
	return c.empty(c.db.WithContext(ctx))
}

func (c *Cart) empty(db *gorm.DB) error {
	if err := db.Where("cart_id = ?", c.id).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("empty cart %s: %w", c.id, err)
	}
	return nil
}

// ConvertToOrder snapshots every line into an OrderDetail of the order, sets the
// order total to the recomputed line sum, and empties the cart. The order must
// already be persisted.
func (c *Cart) ConvertToOrder(ctx context.Context, order *models.Order) (uint, error) {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		lines, err := c.items(tx)
		if err != nil {
			return err
		}

		orderTotal := decimal.Zero
		details := make([]models.OrderDetail, 0, len(lines))
		for _, line := range lines {
			details = append(details, models.OrderDetail{
				ProductID:   line.ProductID,
				OrderID:     order.ID,
				Quantity:    line.Count,
				ProductName: line.Product.Name,
				CustomerID:  order.CustomerID,
				Cost:        line.Product.Price,
			})
			orderTotal = orderTotal.Add(line.Product.Price.Mul(decimal.NewFromInt(int64(line.Count))))
		}

		if len(details) > 0 {
			if err := tx.Create(&details).Error; err != nil {
				return fmt.Errorf("create order details: %w", err)
			}
		}

		order.OrderTotal = orderTotal
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("order_total", orderTotal).Error; err != nil {
			return fmt.Errorf("update order total: %w", err)
		}
		order.Details = details

		return c.empty(tx)
	})
	if err != nil {
		return 0, err
	}
	return order.ID, nil
}

// Reassign moves every line of the cart to a new identifier, typically the
// user name at sign-in. Lines for a product the target cart already holds are
// merged into it.
func (c *Cart) Reassign(ctx context.Context, newID string) error {
	if newID == "" || newID == c.id {
		return nil
	}

	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		if err := tx.Where("cart_id = ?", c.id).Find(&lines).Error; err != nil {
			return fmt.Errorf("load cart %s: %w", c.id, err)
		}

		for _, line := range lines {
			var existing models.CartLine
			err := tx.Where("cart_id = ? AND product_id = ?", newID, line.ProductID).First(&existing).Error
			switch {
			case errors.Is(err, gorm.ErrRecordNotFound):
				err = tx.Model(&models.CartLine{}).
					Where("cart_id = ? AND product_id = ?", c.id, line.ProductID).
					Update("cart_id", newID).Error
				if err != nil {
					return fmt.Errorf("move cart line: %w", err)
				}
			case err != nil:
				return fmt.Errorf("load target cart line: %w", err)
			default:
				if err := tx.Model(&existing).Update("count", existing.Count+line.Count).Error; err != nil {
					return fmt.Errorf("merge cart line: %w", err)
				}
				if err := tx.Delete(&line).Error; err != nil {
					return fmt.Errorf("delete merged cart line: %w", err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.id = newID
	return nil
}

// Sweep releases anonymous cart lines created before cutoff: their units go
// back to stock and the lines are deleted. Carts keyed by a user name are
// left alone. It returns the number of lines released.
func Sweep(ctx context.Context, db *gorm.DB, cutoff time.Time) (int, error) {
	released := 0
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lines []models.CartLine
		err := tx.Where("date_created < ?", cutoff).
			Where("cart_id NOT IN (?)", tx.Model(&models.User{}).Select("user_name").Where("user_name IS NOT NULL")).
			Find(&lines).Error
		if err != nil {
			return fmt.Errorf("find stale cart lines: %w", err)
		}

		for _, line := range lines {
			err := tx.Model(&models.Product{}).
				Where("id = ?", line.ProductID).
				UpdateColumn("quantity", gorm.Expr("quantity + ?", line.Count)).Error
			if err != nil {
				return fmt.Errorf("restock product %d: %w", line.ProductID, err)
			}
			err = tx.Where("cart_id = ? AND product_id = ?", line.CartID, line.ProductID).
				Delete(&models.CartLine{}).Error
			if err != nil {
				return fmt.Errorf("delete cart line: %w", err)
			}
			released++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return released, nil
}
