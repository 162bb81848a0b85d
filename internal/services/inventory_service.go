package services

import (
	"log"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
	"github.com/chris-kechagias/retail-inventory-api/internal/repositories"
)

const (
	// DefaultListLimit is used when a list request supplies no limit.
	DefaultListLimit = 100
	// MaxListLimit caps the page size; larger requests are clamped,
	// not rejected.
	MaxListLimit = 100
)

// EventPublisher publishes product lifecycle events. Publishing is
// best-effort: the service logs failures and never fails the
// originating operation over them.
type EventPublisher interface {
	PublishProductEvent(eventType string, payload map[string]interface{}) error
}

// InventoryService handles business logic related to the product
// inventory. All state lives in the repository; the service holds no
// data between calls.
type InventoryService struct {
	repo     repositories.ProductRepository
	events   EventPublisher
	validate *validator.Validate
}

// NewInventoryService creates a new InventoryService. events may be
// nil, which disables event publishing.
func NewInventoryService(repo repositories.ProductRepository, events EventPublisher) *InventoryService {
	validate := validator.New()
	// Report JSON field names in validation errors instead of Go
	// struct field names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &InventoryService{
		repo:     repo,
		events:   events,
		validate: validate,
	}
}

// CreateProduct validates the candidate record, defaults in_stock to
// true when the caller did not supply it, and persists it. The
// repository assigns the identifier. Returns the stored record.
func (s *InventoryService) CreateProduct(input models.ProductCreate) (*models.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, newValidationError(err)
	}

	inStock := true
	if input.InStock != nil {
		inStock = *input.InStock
	}

	product := &models.Product{
		Name:     input.Name,
		Price:    input.Price,
		Quantity: input.Quantity,
		InStock:  inStock,
	}
	if err := s.repo.Create(product); err != nil {
		log.Printf("Error creating product %q: %v", input.Name, err)
		return nil, err
	}

	s.publish("product.created", product)
	return product, nil
}

// GetProduct retrieves a single product by its ID.
func (s *InventoryService) GetProduct(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// ListProducts returns a page of products. A negative offset becomes
// 0; a missing or non-positive limit becomes DefaultListLimit; limits
// above MaxListLimit are clamped.
func (s *InventoryService) ListProducts(offset, limit int) ([]models.Product, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	return s.repo.List(offset, limit)
}

// UpdateProduct applies a sparse patch to an existing product. Only
// fields present in the patch are overwritten; the merge is purely
// per-field. In particular, changing quantity does not recompute
// in_stock - callers wanting the derived value must send it
// explicitly.
func (s *InventoryService) UpdateProduct(id uint, patch models.ProductUpdate) (*models.Product, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, newValidationError(err)
	}

	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	if patch.InStock != nil {
		product.InStock = *patch.InStock
	}

	if err := s.repo.Update(product); err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return nil, err
	}

	s.publish("product.updated", product)
	return product, nil
}

// DeleteProduct removes a product by its ID.
func (s *InventoryService) DeleteProduct(id uint) error {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return err
	}

	s.publish("product.deleted", product)
	return nil
}

// TotalInventoryValue returns sum(price * quantity) over the whole
// inventory, rounded to 2 decimal places. The aggregation itself runs
// inside the repository. An empty inventory yields 0.
func (s *InventoryService) TotalInventoryValue() (float64, error) {
	total, err := s.repo.SumValue()
	if err != nil {
		log.Printf("Error calculating total inventory value: %v", err)
		return 0, err
	}
	return math.Round(total*100) / 100, nil
}

func (s *InventoryService) publish(eventType string, product *models.Product) {
	if s.events == nil {
		return
	}
	payload := map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
		"price":     product.Price,
		"quantity":  product.Quantity,
		"inStock":   product.InStock,
	}
	if err := s.events.PublishProductEvent(eventType, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", eventType, product.ID, err)
	}
}
