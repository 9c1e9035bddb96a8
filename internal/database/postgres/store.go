// Package postgres keeps the catalog in a hosted PostgreSQL database.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coffebless/internal/catalog"
	"coffebless/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

type categoryRow struct {
	ID        string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	SortOrder *int
}

func (categoryRow) TableName() string { return "categories" }

type productRow struct {
	ID                  string `gorm:"primaryKey"`
	Name                string `gorm:"not null"`
	CategoryID          string `gorm:"not null;index"`
	BasePrice           int64  `gorm:"not null;default:0"`
	LargePrice          *int64
	Description         *string
	Image               *string
	AllowsCustomization bool `gorm:"not null;default:false"`
	Position            int  `gorm:"not null;default:0"`
}

func (productRow) TableName() string { return "products" }

// Store persists categories and products with gorm.
type Store struct {
	db *gorm.DB
}

// Open connects to dsn and migrates the catalog tables.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("database url is required")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.WithContext(ctx).AutoMigrate(&categoryRow{}, &productRow{}); err != nil {
		return nil, fmt.Errorf("migrate catalog tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadCatalog reads both tables.
func (s *Store) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	var cats []categoryRow
	if err := s.db.WithContext(ctx).
		Order("sort_order IS NULL, sort_order, name").
		Find(&cats).Error; err != nil {
		return models.Catalog{}, fmt.Errorf("list categories: %w", err)
	}
	var products []productRow
	if err := s.db.WithContext(ctx).Order("position, id").Find(&products).Error; err != nil {
		return models.Catalog{}, fmt.Errorf("list products: %w", err)
	}

	out := models.Catalog{
		Categories: make([]models.Category, 0, len(cats)),
		Products:   make([]models.Product, 0, len(products)),
	}
	for _, c := range cats {
		out.Categories = append(out.Categories, c.toModel())
	}
	for _, p := range products {
		out.Products = append(out.Products, p.toModel())
	}
	return out, nil
}

// SaveProducts replaces the products table in one transaction.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) error {
	rows := make([]productRow, len(products))
	for i, p := range products {
		rows[i] = productFromModel(p, i)
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&productRow{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).CreateInBatches(rows, 100).Error
	})
	if err != nil {
		return fmt.Errorf("save products: %w", err)
	}
	return nil
}

// SaveCategories upserts categories by id.
func (s *Store) SaveCategories(ctx context.Context, categories []models.Category) error {
	if len(categories) == 0 {
		return nil
	}
	rows := make([]categoryRow, len(categories))
	for i, c := range categories {
		rows[i] = categoryRow{ID: c.ID, Name: c.Name, SortOrder: c.Order}
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "sort_order"}),
		}).
		Create(&rows).Error
	if err != nil {
		return fmt.Errorf("save categories: %w", err)
	}
	return nil
}

// DeleteCategory removes one category row.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&categoryRow{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete category %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("delete category %s: %w", id, catalog.ErrNotStored)
	}
	return nil
}

// Reset deletes every product and category.
func (s *Store) Reset(ctx context.Context) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&productRow{}).Error; err != nil {
			return err
		}
		return all.Delete(&categoryRow{}).Error
	})
	if err != nil {
		return fmt.Errorf("reset catalog: %w", err)
	}
	return nil
}

func (c categoryRow) toModel() models.Category {
	return models.Category{ID: c.ID, Name: c.Name, Order: c.SortOrder}
}

func productFromModel(p models.Product, position int) productRow {
	return productRow{
		ID:                  p.ID,
		Name:                p.Name,
		CategoryID:          p.CategoryID,
		BasePrice:           p.BasePrice,
		LargePrice:          p.LargePrice,
		Description:         p.Description,
		Image:               p.Image,
		AllowsCustomization: p.AllowsCustomization,
		Position:            position,
	}
}

func (p productRow) toModel() models.Product {
	return models.Product{
		ID:                  p.ID,
		Name:                p.Name,
		CategoryID:          p.CategoryID,
		BasePrice:           p.BasePrice,
		LargePrice:          p.LargePrice,
		Description:         p.Description,
		Image:               p.Image,
		AllowsCustomization: p.AllowsCustomization,
	}
}
