package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/chris-kechagias/retail-inventory-api/internal/models"
	"github.com/chris-kechagias/retail-inventory-api/internal/repositories"
	"github.com/chris-kechagias/retail-inventory-api/internal/services"
)

// ProductHandler handles HTTP requests for the product inventory.
type ProductHandler struct {
	service *services.InventoryService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.InventoryService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// The total_value route must come before /:id so it is not captured
// as an identifier.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleListProducts)
	productRoutes.Get("/total_value", h.HandleTotalValue)
	productRoutes.Get("/:id", h.HandleGetProduct)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleListProducts returns a page of products. The limit is clamped
// by the service, never rejected.
func (h *ProductHandler) HandleListProducts(c *fiber.Ctx) error {
	offset := c.QueryInt("offset", 0)
	limit := c.QueryInt("limit", services.DefaultListLimit)

	products, err := h.service.ListProducts(offset, limit)
	if err != nil {
		log.Printf("Error listing products (offset=%d, limit=%d): %v", offset, limit, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve products",
		})
	}
	return c.JSON(products)
}

// HandleTotalValue returns the aggregate inventory value.
func (h *ProductHandler) HandleTotalValue(c *fiber.Ctx) error {
	total, err := h.service.TotalInventoryValue()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not calculate inventory value",
		})
	}
	return c.JSON(fiber.Map{
		"total_inventory_value": total,
	})
}

// HandleGetProduct retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	product, err := h.service.GetProduct(id)
	if err != nil {
		return h.errorResponse(c, id, err, "Could not retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var input models.ProductCreate
	if err := c.BodyParser(&input); err != nil {
		log.Printf("Error parsing create product request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.CreateProduct(input)
	if err != nil {
		return h.errorResponse(c, 0, err, "Could not create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct applies a partial update to an existing product.
// Fields absent from the body are left untouched.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	var patch models.ProductUpdate
	if err := c.BodyParser(&patch); err != nil {
		log.Printf("Error parsing update request body for product %d: %v", id, err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	product, err := h.service.UpdateProduct(id, patch)
	if err != nil {
		return h.errorResponse(c, id, err, "Could not update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseProductID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid product ID",
		})
	}

	if err := h.service.DeleteProduct(id); err != nil {
		return h.errorResponse(c, id, err, "Could not delete product")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// errorResponse maps domain errors onto HTTP status codes: validation
// failures to 400, missing identifiers to 404, anything else to 500.
func (h *ProductHandler) errorResponse(c *fiber.Ctx, id uint, err error, message string) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  validationErr.Fields,
		})
	}
	if errors.Is(err, repositories.ErrProductNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": fmt.Sprintf("Product with ID %d not found", id),
		})
	}

	log.Printf("Store error for product %d: %v", id, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": message,
	})
}

func parseProductID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("id")
	if err != nil {
		return 0, err
	}
	if id <= 0 {
		return 0, fmt.Errorf("product ID must be positive, got %d", id)
	}
	return uint(id), nil
}
