// Package catalog answers the storefront's read-only product and category
// queries.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/01moynul/valuefurniture-golang/internal/models"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound  = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category not found")
)

// PopularLimit is how many products the popular listing shows.
const PopularLimit = 3

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) products(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Product{}).Preload("Category")
}

// Search lists products by name. A non-empty term keeps products whose name
// starts with it or whose category is named exactly that.
func (s *Store) Search(ctx context.Context, term string) ([]models.Product, error) {
	q := s.products(ctx).Order("products.name")
	if term != "" {
		q = q.Select("products.*").
			Joins("LEFT JOIN categories ON categories.id = products.category_id").
			Where("products.name LIKE ? OR categories.name = ?", term+"%", term)
	}

	var out []models.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	return out, nil
}

// Popular returns the in-stock products with the least stock left.
func (s *Store) Popular(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	err := s.products(ctx).
		Where("quantity > 0").
		Order("quantity").
		Order("id").
		Limit(PopularLimit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("popular products: %w", err)
	}
	return out, nil
}

// Available returns every product with stock.
func (s *Store) Available(ctx context.Context) ([]models.Product, error) {
	var out []models.Product
	if err := s.products(ctx).Where("quantity > 0").Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("available products: %w", err)
	}
	return out, nil
}

func (s *Store) Product(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.products(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("load product %d: %w", id, err)
	}
	return &p, nil
}

// Categories is the category menu.
func (s *Store) Categories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Browse returns one category, matched by name or slug, with its products.
func (s *Store) Browse(ctx context.Context, nameOrSlug string) (*models.Category, error) {
	var cat models.Category
	err := s.db.WithContext(ctx).
		Preload("Products", func(db *gorm.DB) *gorm.DB { return db.Order("products.name") }).
		Where("name = ? OR slug = ?", nameOrSlug, slug.Make(nameOrSlug)).
		First(&cat).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("browse category %q: %w", nameOrSlug, err)
	}
	return &cat, nil
}

// SearchAdmin is the admin product filter. A substring match also covers
// the prefix match of the listing page.
func (s *Store) SearchAdmin(ctx context.Context, name string) ([]models.Product, error) {
	q := s.products(ctx).Order("id")
	if name != "" {
		q = q.Where("name LIKE ?", "%"+name+"%")
	}
	var out []models.Product
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("filter products: %w", err)
	}
	return out, nil
}
