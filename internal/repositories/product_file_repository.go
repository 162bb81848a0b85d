package repositories

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"sync"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
)

// FileProductRepository persists products in a single JSON file. The
// file has no native id sequence, so this repository owns identifier
// assignment via models.NextProductID. Every mutation rewrites the
// whole file; a mutex serializes access so each write is atomic with
// respect to in-process callers.
type FileProductRepository struct {
	path     string
	products map[uint]models.Product
	mu       sync.RWMutex
}

// NewFileProductRepository loads the inventory file at path. A missing
// or empty file starts an empty inventory. Records that fail to decode
// are skipped with a warning rather than failing the load.
func NewFileProductRepository(path string) (*FileProductRepository, error) {
	r := &FileProductRepository{
		path:     path,
		products: make(map[uint]models.Product),
	}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileProductRepository) load() error {
	data, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read inventory file %s: %w", r.path, err)
	}
	if len(data) == 0 {
		return nil
	}

	// Decode record by record so one malformed entry does not take the
	// whole inventory down with it.
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("invalid inventory file %s: %w", r.path, err)
	}
	for _, entry := range raw {
		var product models.Product
		if err := json.Unmarshal(entry, &product); err != nil {
			log.Printf("Skipping malformed product record in %s: %v", r.path, err)
			continue
		}
		r.products[product.ID] = product
	}
	return nil
}

// save rewrites the whole inventory file, products ordered by ID.
func (r *FileProductRepository) save() error {
	products := r.sorted()
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal inventory: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write inventory file %s: %w", r.path, err)
	}
	return nil
}

func (r *FileProductRepository) sorted() []models.Product {
	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// GetByID returns a product by its ID.
func (r *FileProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// List returns a page of products ordered by ID.
func (r *FileProductRepository) List(offset, limit int) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := r.sorted()
	if offset >= len(products) {
		return []models.Product{}, nil
	}
	products = products[offset:]
	if limit < len(products) {
		products = products[:limit]
	}
	return products, nil
}

// Create assigns the next identifier and persists the new product.
func (r *FileProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = models.NextProductID(r.sorted())
	r.products[product.ID] = *product
	if err := r.save(); err != nil {
		delete(r.products, product.ID)
		return err
	}
	return nil
}

// Update overwrites an existing product.
func (r *FileProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	r.products[product.ID] = *product
	if err := r.save(); err != nil {
		r.products[product.ID] = previous
		return err
	}
	return nil
}

// Delete removes a product by its ID.
func (r *FileProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	if err := r.save(); err != nil {
		r.products[id] = previous
		return err
	}
	return nil
}

// SumValue iterates the in-memory inventory once. Malformed records
// were already skipped at load time, so every remaining product has a
// usable price and quantity.
func (r *FileProductRepository) SumValue() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, p := range r.products {
		total += p.Price * float64(p.Quantity)
	}
	return total, nil
}
