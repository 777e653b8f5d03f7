package enums

import "fmt"

// DealStatus tracks the lifecycle of a negotiated deal.
type DealStatus string

const (
	DealStatusNegotiating    DealStatus = "negotiating"
	DealStatusAgreed         DealStatus = "agreed"
	DealStatusPaymentPending DealStatus = "payment_pending"
	DealStatusPaid           DealStatus = "paid"
	DealStatusCompleted      DealStatus = "completed"
	DealStatusCancelled      DealStatus = "cancelled"
)

var validDealStatuses = []DealStatus{
	DealStatusNegotiating,
	DealStatusAgreed,
	DealStatusPaymentPending,
	DealStatusPaid,
	DealStatusCompleted,
	DealStatusCancelled,
}

// dealTransitions is the forward progression; cancelled is reachable from any
// non-terminal state and handled separately in CanTransition.
var dealTransitions = map[DealStatus][]DealStatus{
	DealStatusNegotiating:    {DealStatusAgreed},
	DealStatusAgreed:         {DealStatusPaymentPending},
	DealStatusPaymentPending: {DealStatusPaid},
	DealStatusPaid:           {DealStatusCompleted},
}

// String implements fmt.Stringer.
func (d DealStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DealStatus.
func (d DealStatus) IsValid() bool {
	for _, candidate := range validDealStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (d DealStatus) IsTerminal() bool {
	return d == DealStatusCompleted || d == DealStatusCancelled
}

// CanTransition reports whether the target status is reachable from d.
func (d DealStatus) CanTransition(target DealStatus) bool {
	if target == DealStatusCancelled {
		return !d.IsTerminal()
	}
	for _, next := range dealTransitions[d] {
		if next == target {
			return true
		}
	}
	return false
}

// HoldsReservation reports whether a deal in this status is counted against
// the listing's available quantity for cancellation restores.
func (d DealStatus) HoldsReservation() bool {
	switch d {
	case DealStatusAgreed, DealStatusPaymentPending, DealStatusPaid:
		return true
	}
	return false
}

// ParseDealStatus converts raw input into a DealStatus.
func ParseDealStatus(value string) (DealStatus, error) {
	for _, candidate := range validDealStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid deal status %q", value)
}
