package repositories

import (
	"errors"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
)

// ErrProductNotFound is returned (wrapped) by every repository when an
// operation references an identifier that does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetByID returns the product with the given ID, or an error
	// wrapping ErrProductNotFound.
	GetByID(id uint) (*models.Product, error)
	// List returns products in store-defined order, skipping offset
	// records and returning at most limit.
	List(offset, limit int) ([]models.Product, error)
	// Create persists a new product and fills in its assigned ID.
	Create(product *models.Product) error
	// Update overwrites all fields of an existing product.
	Update(product *models.Product) error
	// Delete removes the product with the given ID.
	Delete(id uint) error
	// SumValue returns the total inventory value, sum(price * quantity)
	// over all products. An empty inventory yields 0.
	SumValue() (float64, error)
}
