package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository, used when running without a database and in
// tests. Like the file repository it has no native sequence, so it
// assigns ids with models.NextProductID.
type MockProductRepository struct {
	products map[uint]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
	}
}

func (r *MockProductRepository) sorted() []models.Product {
	products := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return &product, nil
}

// List returns a page of products ordered by ID.
func (r *MockProductRepository) List(offset, limit int) ([]models.Product, error) {
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

// Create assigns the next identifier and stores the new product.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = models.NextProductID(r.sorted())
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[product.ID]; !ok {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	delete(r.products, id)
	return nil
}

// SumValue sums price * quantity over the stored products.
func (r *MockProductRepository) SumValue() (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total float64
	for _, p := range r.products {
		total += p.Price * float64(p.Quantity)
	}
	return total, nil
}
