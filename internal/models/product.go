package models

// Product represents a single product tracked by the inventory.
// The ID is assigned exactly once, either by the record store
// (auto-increment primary key) or by NextProductID for backends
// without a native sequence, never by both.
type Product struct {
	ID       uint    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name     string  `json:"name" gorm:"size:50" validate:"required,min=1,max=50"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	InStock  bool    `json:"in_stock"`
}

// ProductCreate is the payload for creating a product. InStock is a
// pointer so an omitted field can be told apart from an explicit
// false; when omitted the service defaults it to true.
type ProductCreate struct {
	Name     string  `json:"name" validate:"required,min=1,max=50"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	InStock  *bool   `json:"in_stock"`
}

// ProductUpdate is a sparse patch. Every field is a pointer: nil means
// the field was absent from the request and the stored value must be
// kept. Set fields are validated with the same rules as create; the
// omitnil tag skips only the nil case, so an explicit zero value still
// fails validation.
type ProductUpdate struct {
	Name     *string  `json:"name" validate:"omitnil,min=1,max=50"`
	Price    *float64 `json:"price" validate:"omitnil,gt=0"`
	Quantity *int     `json:"quantity" validate:"omitnil,gte=0"`
	InStock  *bool    `json:"in_stock"`
}

// NextProductID returns the identifier for the next product:
// max(existing ids) + 1, or 1 for an empty inventory. The result does
// not depend on the order of the slice.
func NextProductID(products []Product) uint {
	var maxID uint
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	return maxID + 1
}
