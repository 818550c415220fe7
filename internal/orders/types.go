package orders

import "time"

// Payment methods
const (
	PaymentMethodUPI     = "upi"
	PaymentMethodCounter = "counter"
)

// Payment statuses
const (
	PaymentCash                = "cash"
	PaymentPendingVerification = "pending_verification"
	PaymentVerified            = "verified"
	PaymentRejected            = "rejected"
)

// PaymentStatusFor derives the initial payment status at checkout: UPI
// payments wait for admin verification, everything else is cash at counter.
func PaymentStatusFor(method string) string {
	if method == PaymentMethodUPI {
		return PaymentPendingVerification
	}
	return PaymentCash
}

// LineItem snapshots one cart entry at checkout. Price and quantity are fixed
// here; later catalog changes never touch historical orders.
type LineItem struct {
	ProductID string  `json:"product" dynamodbav:"product_id"`
	Quantity  int     `json:"quantity" dynamodbav:"quantity"`
	Price     float64 `json:"price" dynamodbav:"price"`
}

// Subtotal is quantity times the snapshotted unit price.
func (li LineItem) Subtotal() float64 {
	return float64(li.Quantity) * li.Price
}

// Order is the item stored in the orders DynamoDB table.
type Order struct {
	ID            string     `json:"id" dynamodbav:"order_id"` // PK
	UserID        string     `json:"user" dynamodbav:"user_id"`
	Items         []LineItem `json:"items" dynamodbav:"items"`
	Total         float64    `json:"total" dynamodbav:"total"`
	Status        Status     `json:"status" dynamodbav:"status"`
	PaymentMethod string     `json:"paymentMethod" dynamodbav:"payment_method"` // upi | counter
	PaymentStatus string     `json:"paymentStatus" dynamodbav:"payment_status"` // cash | pending_verification | verified | rejected
	CreatedAt     time.Time  `json:"createdAt" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" dynamodbav:"updated_at"`
}

// StatusUpdate carries an admin transition. PaymentStatus and PaymentMethod
// ride along in the same write when set; payment verification in particular
// must never be split from its paired status change.
type StatusUpdate struct {
	Status        Status
	PaymentStatus *string
	PaymentMethod *string
}
