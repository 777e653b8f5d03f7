package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
)

type stubOrders struct {
	resp map[string]interface{}
	err  error
	got  map[string]interface{}
}

func (s *stubOrders) Create(data map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	s.got = data
	return s.resp, s.err
}

type stubPayments struct {
	resp map[string]interface{}
	err  error
}

func (s *stubPayments) Fetch(_ string, _ map[string]interface{}, _ map[string]string) (map[string]interface{}, error) {
	return s.resp, s.err
}

func newTestClient(orders orderCreator, payments paymentFetcher) *Client {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.ErrorLevel, Output: &bytes.Buffer{}})
	return &Client{
		orders:    orders,
		payments:  payments,
		keyID:     "rzp_test_key",
		keySecret: "rzp_test_secret",
		timeout:   time.Second,
		logger:    logg,
	}
}

func TestCreateOrder(t *testing.T) {
	orders := &stubOrders{resp: map[string]interface{}{
		"id":       "order_ABC123",
		"amount":   float64(250000),
		"currency": "INR",
		"receipt":  "deal-42",
		"status":   "created",
	}}
	client := newTestClient(orders, nil)

	order, err := client.CreateOrder(context.Background(), OrderParams{
		AmountPaise: 250000,
		Receipt:     "deal-42",
		Notes:       map[string]string{"deal_id": "42"},
	})
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}
	if order.ID != "order_ABC123" {
		t.Fatalf("unexpected order id %q", order.ID)
	}
	if order.AmountPaise != 250000 {
		t.Fatalf("unexpected amount %d", order.AmountPaise)
	}
	if orders.got["currency"] != "INR" {
		t.Fatalf("expected INR default currency, got %v", orders.got["currency"])
	}
	if orders.got["receipt"] != "deal-42" {
		t.Fatalf("expected receipt to pass through, got %v", orders.got["receipt"])
	}
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	client := newTestClient(&stubOrders{}, nil)
	_, err := client.CreateOrder(context.Background(), OrderParams{AmountPaise: 0})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateOrderMapsGatewayFailure(t *testing.T) {
	client := newTestClient(&stubOrders{err: errors.New("BAD_REQUEST_ERROR")}, nil)
	_, err := client.CreateOrder(context.Background(), OrderParams{AmountPaise: 100})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestCreateOrderMissingID(t *testing.T) {
	client := newTestClient(&stubOrders{resp: map[string]interface{}{"status": "created"}}, nil)
	_, err := client.CreateOrder(context.Background(), OrderParams{AmountPaise: 100})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for missing id, got %v", err)
	}
}

func TestFetchPayment(t *testing.T) {
	payments := &stubPayments{resp: map[string]interface{}{
		"id":       "pay_XYZ",
		"order_id": "order_ABC123",
		"status":   "captured",
		"method":   "upi",
		"amount":   float64(250000),
		"email":    "buyer@example.com",
		"contact":  "+919876543210",
	}}
	client := newTestClient(nil, payments)

	payment, err := client.FetchPayment(context.Background(), "pay_XYZ")
	if err != nil {
		t.Fatalf("FetchPayment failed: %v", err)
	}
	if payment.Status != "captured" || payment.OrderID != "order_ABC123" {
		t.Fatalf("unexpected payment %+v", payment)
	}
}

func TestFetchPaymentDependencyError(t *testing.T) {
	client := newTestClient(nil, &stubPayments{err: errors.New("gateway down")})
	_, err := client.FetchPayment(context.Background(), "pay_XYZ")
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestVerifySignature(t *testing.T) {
	client := newTestClient(nil, nil)

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_ABC123|pay_XYZ"))
	valid := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifySignature("order_ABC123", "pay_XYZ", valid) {
		t.Fatal("expected valid signature to verify")
	}
	if client.VerifySignature("order_ABC123", "pay_XYZ", valid[:len(valid)-1]+"0") {
		t.Fatal("tampered signature should fail")
	}
	if client.VerifySignature("order_other", "pay_XYZ", valid) {
		t.Fatal("signature over different payload should fail")
	}
	if client.VerifySignature("", "pay_XYZ", valid) {
		t.Fatal("missing order id should fail")
	}
}
