package transport

import "github.com/google/uuid"

type CreateProductRequest struct {
	Name        string  `json:"name"        validate:"required"`
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price"       validate:"gt=0"`
	Stock       *int    `json:"stock"       validate:"required,gte=0"`
	Category    string  `json:"category"    validate:"required"`
	Image       string  `json:"image"`
}

// UpdateProductRequest is a partial update: nil fields keep their value.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"       validate:"omitempty,gt=0"`
	Stock       *int     `json:"stock"       validate:"omitempty,gte=0"`
	Category    *string  `json:"category"`
	Image       *string  `json:"image"`
}

type CreateOrderRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Amount    float64   `json:"amount"    validate:"gt=0"`
}

type CreatePaymentRequest struct {
	Amount    float64   `json:"amount"    validate:"gt=0"`
	Currency  string    `json:"currency"`
	Receipt   string    `json:"receipt"`
	ProductID uuid.UUID `json:"productId" validate:"required"`
}

type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id"   validate:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" validate:"required"`
	RazorpaySignature string `json:"razorpay_signature"  validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,oneof=buyer seller"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}
