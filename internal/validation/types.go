package validation

// OrderItemRequest is a single cart entry at checkout.
type OrderItemRequest struct {
	ProductID string  `json:"product" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Price     float64 `json:"price" validate:"required,gt=0"` // unit price the client saw
}

// CreateOrderRequest is the payload for POST /orders.
type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	Total         float64            `json:"total" validate:"required,gt=0"`
	PaymentMethod string             `json:"paymentMethod" validate:"omitempty,oneof=upi counter"`
}

// UpdateOrderRequest is the admin payload for PATCH /orders/:id.
type UpdateOrderRequest struct {
	Status        string  `json:"status" validate:"omitempty,oneof=pending preparing ready completed cancelled"`
	PaymentStatus *string `json:"paymentStatus" validate:"omitempty,oneof=cash pending_verification verified rejected"`
	PaymentMethod *string `json:"paymentMethod" validate:"omitempty,oneof=upi counter"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=admin customer"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ReviewRequest is the payload for POST /reviews.
type ReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"required,max=500"`
}

// ApproveReviewRequest is the admin payload for PATCH /admin/reviews/:id.
type ApproveReviewRequest struct {
	IsApproved *bool `json:"isApproved" validate:"required"`
}

// CreateProductRequest is the admin payload for POST /products.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required,oneof=coffee tea pastry sandwich"`
	Image       string  `json:"image"`
	Stock       *int    `json:"stock" validate:"omitempty,min=0"` // defaults to 100
	IsTrending  bool    `json:"isTrending"`
	IsFeatured  bool    `json:"isFeatured"`
}

// UpdateProductRequest is the admin payload for PUT /products/:id.
// Nil fields are left untouched.
type UpdateProductRequest struct {
	Name              *string  `json:"name"`
	Description       *string  `json:"description"`
	Price             *float64 `json:"price" validate:"omitempty,gt=0"`
	Category          *string  `json:"category" validate:"omitempty,oneof=coffee tea pastry sandwich"`
	Image             *string  `json:"image"`
	Stock             *int     `json:"stock" validate:"omitempty,min=0"`
	LowStockThreshold *int     `json:"lowStockThreshold" validate:"omitempty,min=0"`
	IsTrending        *bool    `json:"isTrending"`
	IsFeatured        *bool    `json:"isFeatured"`
}

// PatchProductRequest is the admin payload for PATCH /products/:id, the quick
// stock/availability adjustment used by the back-office.
type PatchProductRequest struct {
	Stock   *int  `json:"stock" validate:"omitempty,min=0"`
	InStock *bool `json:"inStock"`
}
