// Package sqlite keeps the catalog in SQLite tables.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	"coffebless/internal/catalog"
	"coffebless/internal/database/sqlite/migrations"
	"coffebless/internal/models"

	_ "modernc.org/sqlite"
)

// Store persists categories and products in SQLite.
type Store struct {
	sqlDB *sql.DB
}

// Open opens the database file and applies embedded migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// one writer keeps the delete-then-insert transaction simple
	sqlDB.SetMaxOpenConns(1)
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(ctx, sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LoadCatalog reads both tables.
func (s *Store) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return models.Catalog{}, err
	}
	cats, err := s.categories(ctx)
	if err != nil {
		return models.Catalog{}, err
	}
	products, err := s.products(ctx)
	if err != nil {
		return models.Catalog{}, err
	}
	return models.Catalog{Products: products, Categories: cats}, nil
}

func (s *Store) categories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, sort_order FROM categories
		 ORDER BY sort_order IS NULL, sort_order, name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []models.Category
	for rows.Next() {
		var (
			c     models.Category
			order sql.NullInt64
		)
		if err := rows.Scan(&c.ID, &c.Name, &order); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		if order.Valid {
			c.Order = models.Int(int(order.Int64))
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (s *Store) products(ctx context.Context) ([]models.Product, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, category_id, base_price, large_price, description, image, allows_customization
		 FROM products ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []models.Product
	for rows.Next() {
		var (
			p           models.Product
			large       sql.NullInt64
			description sql.NullString
			image       sql.NullString
			custom      int
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.CategoryID, &p.BasePrice, &large, &description, &image, &custom); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		if large.Valid {
			p.LargePrice = models.Int64(large.Int64)
		}
		if description.Valid {
			p.Description = models.String(description.String)
		}
		if image.Valid {
			p.Image = models.String(image.String)
		}
		p.AllowsCustomization = custom != 0
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return out, nil
}

// SaveProducts replaces the product table in one transaction.
func (s *Store) SaveProducts(ctx context.Context, products []models.Product) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save products: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("clear products: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO products (id, name, category_id, base_price, large_price, description, image, allows_customization, position)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category_id = excluded.category_id,
		   base_price = excluded.base_price,
		   large_price = excluded.large_price,
		   description = excluded.description,
		   image = excluded.image,
		   allows_customization = excluded.allows_customization,
		   position = excluded.position`)
	if err != nil {
		return fmt.Errorf("prepare product insert: %w", err)
	}
	defer stmt.Close()

	for i, p := range products {
		custom := 0
		if p.AllowsCustomization {
			custom = 1
		}
		if _, err = stmt.ExecContext(ctx, p.ID, p.Name, p.CategoryID, p.BasePrice,
			nullInt64(p.LargePrice), nullString(p.Description), nullString(p.Image), custom, i); err != nil {
			return fmt.Errorf("insert product %s: %w", p.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save products: %w", err)
	}
	return nil
}

// SaveCategories upserts categories by id.
func (s *Store) SaveCategories(ctx context.Context, categories []models.Category) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save categories: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, c := range categories {
		var order sql.NullInt64
		if c.Order != nil {
			order = sql.NullInt64{Int64: int64(*c.Order), Valid: true}
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO categories (id, name, sort_order) VALUES (?, ?, ?)
			 ON CONFLICT(id) DO UPDATE SET name = excluded.name, sort_order = excluded.sort_order`,
			c.ID, c.Name, order); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.ID, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit save categories: %w", err)
	}
	return nil
}

// DeleteCategory removes one category row.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete category %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete category %s: %w", id, catalog.ErrNotStored)
	}
	return nil
}

// Reset deletes every product and category.
func (s *Store) Reset(ctx context.Context) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM products`); err != nil {
		return fmt.Errorf("reset products: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM categories`); err != nil {
		return fmt.Errorf("reset categories: %w", err)
	}
	return tx.Commit()
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
