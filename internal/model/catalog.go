package model

// Catalog holds the products available for searching, in load order.
// It is built once and treated as read-only afterwards.
type Catalog struct {
	Products []Product `json:"products"`
}

// NewCatalog creates a Catalog from the given products.
// Later products reusing an already seen ID are dropped.
func NewCatalog(products []Product) Catalog {
	seen := make(map[int]bool, len(products))
	result := make([]Product, 0, len(products))
	for _, p := range products {
		if seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		result = append(result, p)
	}
	return Catalog{Products: result}
}

// Len returns the number of products in the catalog.
func (c Catalog) Len() int {
	return len(c.Products)
}

// GetProductByID finds a product by ID, returns nil if not found.
func (c Catalog) GetProductByID(id int) *Product {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}
