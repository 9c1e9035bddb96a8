package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"coffebless/internal/catalog"
	"coffebless/internal/models"
)

// dbData, JSON dosyasındaki tüm verileri temsil eder.
type dbData struct {
	Version    string            `json:"version"`
	Products   []models.Product  `json:"products"`
	Categories []models.Category `json:"categories"`
}

// JSONDatabase, yerel katalog yuvasıdır: diskte tek bir JSON dosyası.
type JSONDatabase struct {
	mu       sync.RWMutex
	data     dbData
	filePath string
	version  string
}

// NewDatabase, yeni bir JSONDatabase örneği oluşturur ve verileri yükler.
//
// Başka bir katalog sürümüyle yazılmış dosyanın ürünleri atılır, böylece
// mağaza yerleşik menüye döner. Ayrıştırılamayan dosya boş sayılır.
func NewDatabase(path, version string) (*JSONDatabase, error) {
	if path == "" {
		path = "./data.json"
	}
	db := &JSONDatabase{
		filePath: path,
		version:  version,
	}
	if err := db.loadData(); err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &syntaxErr) && !errors.As(err, &typeErr) {
			return nil, err
		}
		db.data = dbData{}
	}
	if db.data.Version != version {
		db.data = dbData{Version: version, Categories: db.data.Categories}
		if err := db.saveData(); err != nil {
			return nil, err
		}
	}
	return db, nil
}

func (db *JSONDatabase) loadData() error {
	if _, err := os.Stat(db.filePath); os.IsNotExist(err) {
		db.data = dbData{Version: db.version}
		return db.saveData()
	}

	fileData, err := os.ReadFile(db.filePath)
	if err != nil {
		return err
	}
	// Dosya boşsa hata vermemesi için kontrol
	if len(fileData) == 0 {
		db.data = dbData{Version: db.version}
		return nil
	}

	return json.Unmarshal(fileData, &db.data)
}

func (db *JSONDatabase) saveData() error {
	data, err := json.MarshalIndent(db.data, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(db.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	// önce yaz sonra yeniden adlandır; çökme yarım dosya bırakmaz
	tmp := db.filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, db.filePath)
}

// Path, yuvanın dosya yoludur.
func (db *JSONDatabase) Path() string { return db.filePath }

// LoadCatalog, kayıtlı kataloğu döndürür.
func (db *JSONDatabase) LoadCatalog(ctx context.Context) (models.Catalog, error) {
	if err := ctx.Err(); err != nil {
		return models.Catalog{}, err
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return models.Catalog{
		Version:    db.data.Version,
		Products:   append([]models.Product(nil), db.data.Products...),
		Categories: append([]models.Category(nil), db.data.Categories...),
	}, nil
}

// SaveProducts, ürün listesinin tamamını değiştirir.
func (db *JSONDatabase) SaveProducts(ctx context.Context, products []models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	prev := db.data.Products
	db.data.Products = append([]models.Product(nil), products...)
	if err := db.saveData(); err != nil {
		db.data.Products = prev
		return fmt.Errorf("write %s: %w", db.filePath, err)
	}
	return nil
}

// SaveCategories, kategorileri ID'ye göre ekler ya da günceller.
func (db *JSONDatabase) SaveCategories(ctx context.Context, categories []models.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	prev := db.data.Categories
	next := append([]models.Category(nil), prev...)
	for _, c := range categories {
		found := false
		for i := range next {
			if next[i].ID == c.ID {
				next[i] = c
				found = true
				break
			}
		}
		if !found {
			next = append(next, c)
		}
	}
	db.data.Categories = next
	if err := db.saveData(); err != nil {
		db.data.Categories = prev
		return fmt.Errorf("write %s: %w", db.filePath, err)
	}
	return nil
}

// DeleteCategory, belirli bir ID'ye sahip kategoriyi siler.
func (db *JSONDatabase) DeleteCategory(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	for i, c := range db.data.Categories {
		if c.ID == id {
			prev := db.data.Categories
			next := make([]models.Category, 0, len(prev)-1)
			next = append(next, prev[:i]...)
			next = append(next, prev[i+1:]...)
			db.data.Categories = next
			if err := db.saveData(); err != nil {
				db.data.Categories = prev
				return fmt.Errorf("write %s: %w", db.filePath, err)
			}
			return nil
		}
	}
	return fmt.Errorf("category %s: %w", id, catalog.ErrNotStored)
}

// Reset, yuvayı boşaltır ama sürüm damgasını korur.
func (db *JSONDatabase) Reset(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	db.mu.Lock()
	defer db.mu.Unlock()

	prev := db.data
	db.data = dbData{Version: db.version}
	if err := db.saveData(); err != nil {
		db.data = prev
		return fmt.Errorf("write %s: %w", db.filePath, err)
	}
	return nil
}
