package payments

import (
	"github.com/chirag847/kisaaan/internal/deals"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOrderRequest asks the gateway for an order against an agreed deal.
// Amount is optional; when the client echoes it, it must match the deal total.
// The charge itself is always derived server-side.
type CreateOrderRequest struct {
	DealID uuid.UUID        `json:"deal_id" validate:"required"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// CreateOrderResponse carries everything the checkout client needs.
type CreateOrderResponse struct {
	OrderID     string        `json:"order_id"`
	AmountPaise int64         `json:"amount"`
	Currency    string        `json:"currency"`
	KeyID       string        `json:"key_id"`
	Deal        deals.DealDTO `json:"deal"`
}

// VerifyRequest is the signed redirect the gateway sends the client back with.
type VerifyRequest struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required"`
}

// VerifyResponse reports the reconciled deal.
type VerifyResponse struct {
	Verified bool          `json:"verified"`
	Deal     deals.DealDTO `json:"deal"`
}

// PaymentStatusUnknown is reported when the gateway cannot be reached; the
// local deal view is still returned.
const PaymentStatusUnknown = "unknown"

// PaymentDetailsResponse combines the gateway view with the local deal.
type PaymentDetailsResponse struct {
	PaymentID   string        `json:"payment_id"`
	Status      string        `json:"status"`
	Method      string        `json:"method,omitempty"`
	AmountPaise int64         `json:"amount,omitempty"`
	Email       string        `json:"email,omitempty"`
	Contact     string        `json:"contact,omitempty"`
	Deal        deals.DealDTO `json:"deal"`
}
