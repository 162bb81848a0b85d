package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
	"github.com/chris-kechagias/retail-inventory-api/internal/repositories"
	"github.com/chris-kechagias/retail-inventory-api/internal/services"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) List(offset, limit int) ([]models.Product, error) {
	args := m.Called(offset, limit)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockProductRepository) SumValue() (float64, error) {
	args := m.Called()
	return args.Get(0).(float64), args.Error(1)
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishProductEvent(eventType string, payload map[string]interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

func notFoundErr(id uint) error {
	return fmt.Errorf("product with ID %d: %w", id, repositories.ErrProductNotFound)
}

func TestInventoryService_CreateProduct_DefaultsInStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	// quantity is zero and in_stock is omitted; the documented default
	// still marks the product as in stock.
	input := models.ProductCreate{Name: "Monitor", Price: 199.99, Quantity: 0}

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Product).ID = 1
		}).Return(nil).Once()

	product, err := service.CreateProduct(input)

	assert.NoError(t, err)
	assert.Equal(t, uint(1), product.ID)
	assert.True(t, product.InStock)
	assert.Equal(t, 0, product.Quantity)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_CreateProduct_ExplicitInStockWins(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	inStock := false
	input := models.ProductCreate{Name: "Cable", Price: 5, Quantity: 100, InStock: &inStock}

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Product).ID = 2
		}).Return(nil).Once()

	product, err := service.CreateProduct(input)

	assert.NoError(t, err)
	assert.False(t, product.InStock)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_CreateProduct_ValidationFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	tests := []struct {
		name  string
		input models.ProductCreate
		field string
	}{
		{"negative price", models.ProductCreate{Name: "Laptop", Price: -1, Quantity: 5}, "price"},
		{"zero price", models.ProductCreate{Name: "Laptop", Price: 0, Quantity: 5}, "price"},
		{"empty name", models.ProductCreate{Name: "", Price: 10, Quantity: 5}, "name"},
		{"name too long", models.ProductCreate{Name: "an extremely long product name that exceeds the cap", Price: 10, Quantity: 5}, "name"},
		{"negative quantity", models.ProductCreate{Name: "Laptop", Price: 10, Quantity: -3}, "quantity"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, err := service.CreateProduct(tt.input)

			assert.Nil(t, product)
			var validationErr *services.ValidationError
			assert.ErrorAs(t, err, &validationErr)
			assert.Contains(t, validationErr.Fields, tt.field)
		})
	}

	// The whole operation fails before any write: nothing reached the store.
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestInventoryService_CreateProduct_PublishesEvent(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewInventoryService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).
		Run(func(args mock.Arguments) {
			args.Get(0).(*models.Product).ID = 7
		}).Return(nil).Once()
	mockEvents.On("PublishProductEvent", "product.created", mock.Anything).Return(nil).Once()

	_, err := service.CreateProduct(models.ProductCreate{Name: "Webcam", Price: 49.99, Quantity: 12})

	assert.NoError(t, err)
	mockEvents.AssertExpectations(t)
}

func TestInventoryService_CreateProduct_PublishFailureDoesNotFailCreate(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewInventoryService(mockRepo, mockEvents)

	mockRepo.On("Create", mock.AnythingOfType("*models.Product")).Return(nil).Once()
	mockEvents.On("PublishProductEvent", "product.created", mock.Anything).
		Return(fmt.Errorf("broker unreachable")).Once()

	product, err := service.CreateProduct(models.ProductCreate{Name: "Headset", Price: 89, Quantity: 4})

	assert.NoError(t, err)
	assert.NotNil(t, product)
	mockEvents.AssertExpectations(t)
}

func TestInventoryService_GetProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	expected := &models.Product{ID: 1, Name: "Laptop", Price: 1200, Quantity: 10, InStock: true}

	mockRepo.On("GetByID", uint(1)).Return(expected, nil).Once()
	product, err := service.GetProduct(1)
	assert.NoError(t, err)
	assert.Equal(t, expected, product)

	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()
	product, err = service.GetProduct(99)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_ListProducts_ClampsLimit(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	// Requests above the cap are clamped to 100, not rejected.
	mockRepo.On("List", 0, 100).Return([]models.Product{}, nil).Once()
	_, err := service.ListProducts(0, 200)
	assert.NoError(t, err)

	// Non-positive limits fall back to the default page size.
	mockRepo.On("List", 0, 100).Return([]models.Product{}, nil).Once()
	_, err = service.ListProducts(0, 0)
	assert.NoError(t, err)

	// Negative offsets are treated as zero.
	mockRepo.On("List", 0, 50).Return([]models.Product{}, nil).Once()
	_, err = service.ListProducts(-5, 50)
	assert.NoError(t, err)

	mockRepo.AssertExpectations(t)
}

func TestInventoryService_UpdateProduct_PureMerge(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	stored := &models.Product{ID: 1, Name: "Laptop", Price: 1200, Quantity: 10, InStock: true}
	mockRepo.On("GetByID", uint(1)).Return(stored, nil).Once()

	// Updating quantity alone leaves in_stock untouched, even when the
	// new quantity is zero.
	quantity := 0
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	product, err := service.UpdateProduct(1, models.ProductUpdate{Quantity: &quantity})

	assert.NoError(t, err)
	assert.Equal(t, 0, product.Quantity)
	assert.True(t, product.InStock)
	assert.Equal(t, "Laptop", product.Name)
	assert.Equal(t, 1200.0, product.Price)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_UpdateProduct_ExplicitInStockPersistedAsGiven(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	stored := &models.Product{ID: 1, Name: "Laptop", Price: 1200, Quantity: 10, InStock: true}
	mockRepo.On("GetByID", uint(1)).Return(stored, nil).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(nil).Once()

	// An explicit in_stock wins even though the quantity in the same
	// request says otherwise.
	quantity := 25
	inStock := false
	product, err := service.UpdateProduct(1, models.ProductUpdate{Quantity: &quantity, InStock: &inStock})

	assert.NoError(t, err)
	assert.Equal(t, 25, product.Quantity)
	assert.False(t, product.InStock)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_UpdateProduct_ValidatesSetFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	badPrice := -4.5
	product, err := service.UpdateProduct(1, models.ProductUpdate{Price: &badPrice})

	assert.Nil(t, product)
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "price")
	mockRepo.AssertNotCalled(t, "GetByID", mock.Anything)

	// An explicitly empty name is a violation, not an omission.
	emptyName := ""
	product, err = service.UpdateProduct(1, models.ProductUpdate{Name: &emptyName})

	assert.Nil(t, product)
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "name")
}

func TestInventoryService_UpdateProduct_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()

	name := "Ghost"
	product, err := service.UpdateProduct(99, models.ProductUpdate{Name: &name})

	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	stored := &models.Product{ID: 1, Name: "Laptop", Price: 1200, Quantity: 10, InStock: true}
	mockRepo.On("GetByID", uint(1)).Return(stored, nil).Once()
	mockRepo.On("Delete", uint(1)).Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(1))

	mockRepo.On("GetByID", uint(99)).Return(nil, notFoundErr(99)).Once()
	err := service.DeleteProduct(99)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertNotCalled(t, "Delete", uint(99))
	mockRepo.AssertExpectations(t)
}

func TestInventoryService_TotalInventoryValue(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewInventoryService(mockRepo, nil)

	// [{price:10,quantity:2},{price:5,quantity:3}] => 35.0
	mockRepo.On("SumValue").Return(35.0, nil).Once()
	total, err := service.TotalInventoryValue()
	assert.NoError(t, err)
	assert.Equal(t, 35.0, total)

	// Empty inventory yields 0.0.
	mockRepo.On("SumValue").Return(0.0, nil).Once()
	total, err = service.TotalInventoryValue()
	assert.NoError(t, err)
	assert.Equal(t, 0.0, total)

	// The result is rounded to 2 decimal places.
	mockRepo.On("SumValue").Return(33.333333, nil).Once()
	total, err = service.TotalInventoryValue()
	assert.NoError(t, err)
	assert.Equal(t, 33.33, total)

	mockRepo.AssertExpectations(t)
}
