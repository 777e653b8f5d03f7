package enums

import "testing"

func TestDealStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DealStatus
		to      DealStatus
		allowed bool
	}{
		{DealStatusNegotiating, DealStatusAgreed, true},
		{DealStatusAgreed, DealStatusPaymentPending, true},
		{DealStatusPaymentPending, DealStatusPaid, true},
		{DealStatusPaid, DealStatusCompleted, true},
		{DealStatusNegotiating, DealStatusCancelled, true},
		{DealStatusPaid, DealStatusCancelled, true},
		{DealStatusNegotiating, DealStatusPaid, false},
		{DealStatusNegotiating, DealStatusCompleted, false},
		{DealStatusAgreed, DealStatusCompleted, false},
		{DealStatusCompleted, DealStatusCancelled, false},
		{DealStatusCancelled, DealStatusAgreed, false},
		{DealStatusCompleted, DealStatusPaid, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransition(tc.to); got != tc.allowed {
			t.Errorf("CanTransition(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestDealStatusTerminal(t *testing.T) {
	for _, status := range []DealStatus{DealStatusCompleted, DealStatusCancelled} {
		if !status.IsTerminal() {
			t.Errorf("expected %s to be terminal", status)
		}
	}
	for _, status := range []DealStatus{DealStatusNegotiating, DealStatusAgreed, DealStatusPaymentPending, DealStatusPaid} {
		if status.IsTerminal() {
			t.Errorf("expected %s to be non-terminal", status)
		}
	}
}

func TestDealStatusHoldsReservation(t *testing.T) {
	holds := map[DealStatus]bool{
		DealStatusNegotiating:    false,
		DealStatusAgreed:         true,
		DealStatusPaymentPending: true,
		DealStatusPaid:           true,
		DealStatusCompleted:      false,
		DealStatusCancelled:      false,
	}
	for status, want := range holds {
		if got := status.HoldsReservation(); got != want {
			t.Errorf("HoldsReservation(%s) = %v, want %v", status, got, want)
		}
	}
}

func TestParseDealStatus(t *testing.T) {
	if _, err := ParseDealStatus("payment_pending"); err != nil {
		t.Fatalf("expected payment_pending to parse: %v", err)
	}
	if _, err := ParseDealStatus("shipped"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}
