package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// Identifier assignment is delegated to the database's auto-increment
// primary key.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// List retrieves a page of products ordered by ID.
func (r *GORMProductRepository) List(offset, limit int) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// Create inserts a new product. The database assigns the ID and GORM
// writes it back onto the struct.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update overwrites all fields of an existing product.
func (r *GORMProductRepository) Update(product *models.Product) error {
	// Save updates every column, including zero values, which is what
	// a full-record replace requires. Save does not report a missing
	// row as ErrRecordNotFound, so RowsAffected is checked instead.
	res := r.db.Save(product)
	if res.Error != nil {
		return fmt.Errorf("failed to update product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", product.ID, ErrProductNotFound)
	}
	return nil
}

// Delete deletes a product by its ID from the database.
func (r *GORMProductRepository) Delete(id uint) error {
	res := r.db.Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrProductNotFound)
	}
	return nil
}

// SumValue pushes the multiply-and-sum aggregation into the database
// so the whole inventory never has to be loaded into memory.
func (r *GORMProductRepository) SumValue() (float64, error) {
	var total float64
	err := r.db.Model(&models.Product{}).
		Select("COALESCE(SUM(price * quantity), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to sum inventory value: %w", err)
	}
	return total, nil
}
