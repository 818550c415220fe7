package validation

import (
	"math"

	"github.com/go-playground/validator/v10"
)

// New builds the validator used across handlers, with the cross-field
// checks that tag-level rules cannot express.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidation(createOrderStructValidation, CreateOrderRequest{})
	return v
}

// createOrderStructValidation checks that the submitted total matches the
// sum of the line items. Comparison happens in integer cents so float
// arithmetic noise does not reject honest carts.
func createOrderStructValidation(sl validator.StructLevel) {
	req := sl.Current().Interface().(CreateOrderRequest)

	var sum int64
	for _, item := range req.Items {
		sum += cents(item.Price) * int64(item.Quantity)
	}
	if cents(req.Total) != sum {
		sl.ReportError(req.Total, "Total", "total", "ordertotal", "")
	}
}

func cents(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
