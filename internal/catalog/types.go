package catalog

import "time"

// Product categories
const (
	CategoryCoffee   = "coffee"
	CategoryTea      = "tea"
	CategoryPastry   = "pastry"
	CategorySandwich = "sandwich"
)

// DefaultLowStockThreshold is applied when a product is created without one.
const DefaultLowStockThreshold = 10

// Product is the item stored in the products DynamoDB table.
// InStock is a derived display flag; availability queries always pair it with
// a stock > 0 check because concurrent sales can leave the flag stale for one
// mutation (see Store.Place in the orders package).
type Product struct {
	ID                string    `json:"id" dynamodbav:"product_id"` // PK
	Name              string    `json:"name" dynamodbav:"name"`
	Description       string    `json:"description" dynamodbav:"description"`
	Price             float64   `json:"price" dynamodbav:"price"`
	Category          string    `json:"category" dynamodbav:"category"` // coffee | tea | pastry | sandwich
	Image             string    `json:"image,omitempty" dynamodbav:"image,omitempty"`
	Stock             int       `json:"stock" dynamodbav:"stock"`
	LowStockThreshold int       `json:"lowStockThreshold" dynamodbav:"low_stock_threshold"`
	TotalSold         int       `json:"totalSold" dynamodbav:"total_sold"`
	InStock           bool      `json:"inStock" dynamodbav:"in_stock"`
	IsTrending        bool      `json:"isTrending" dynamodbav:"is_trending"`
	IsFeatured        bool      `json:"isFeatured" dynamodbav:"is_featured"`
	CreatedAt         time.Time `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt         time.Time `json:"updatedAt" dynamodbav:"updated_at"`
}

// Available reports whether the product can currently be sold.
func (p *Product) Available() bool {
	return p.InStock && p.Stock > 0
}

// ProductUpdate carries the fields an admin may change; nil means untouched.
type ProductUpdate struct {
	Name              *string
	Description       *string
	Price             *float64
	Category          *string
	Image             *string
	Stock             *int
	LowStockThreshold *int
	InStock           *bool
	IsTrending        *bool
	IsFeatured        *bool
}

// ListFilter narrows the storefront product listing.
// InStock follows the storefront semantics: nil shows products flagged in
// stock, true requires stock > 0, false disables the availability filter.
type ListFilter struct {
	Search   string
	Category string
	InStock  *bool
}
