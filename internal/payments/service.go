package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/chirag847/kisaaan/internal/deals"
	"github.com/chirag847/kisaaan/pkg/db"
	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/razorpay"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var paiseFactor = decimal.NewFromInt(100)

// Service defines the behavior needed by the payments controller.
type Service interface {
	CreateOrder(ctx context.Context, buyerID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error)
	VerifyCallback(ctx context.Context, actorID uuid.UUID, req VerifyRequest) (*VerifyResponse, error)
	FetchPaymentDetails(ctx context.Context, actorID uuid.UUID, paymentID string) (*PaymentDetailsResponse, error)
}

type gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, params razorpay.OrderParams) (*razorpay.Order, error)
	FetchPayment(ctx context.Context, paymentID string) (*razorpay.Payment, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

type service struct {
	db      *db.Client
	repo    *deals.Repository
	gateway gateway
	logg    *logger.Logger
}

// ServiceParams bundles the dependencies required to build a payments service.
type ServiceParams struct {
	DB      *db.Client
	Repo    *deals.Repository
	Gateway gateway
	Logger  *logger.Logger
}

var _ gateway = (*razorpay.Client)(nil)

// NewService constructs a payments service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:      params.DB,
		repo:    params.Repo,
		gateway: params.Gateway,
		logg:    params.Logger,
	}, nil
}

func (s *service) CreateOrder(ctx context.Context, buyerID uuid.UUID, req CreateOrderRequest) (*CreateOrderResponse, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	deal, err := s.findDeal(ctx, req.DealID)
	if err != nil {
		return nil, err
	}
	if deal.BuyerID != buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the deal's buyer can pay")
	}
	if deal.Status != enums.DealStatusAgreed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("deal must be agreed to create an order, currently %s", deal.Status))
	}
	if req.Amount != nil && !req.Amount.Equal(deal.TotalAmount) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("amount must match the deal total %s", deal.TotalAmount))
	}

	// Fractional totals charge to the nearest paisa.
	amountPaise := deal.TotalAmount.Mul(paiseFactor).Round(0).IntPart()
	order, err := s.gateway.CreateOrder(ctx, razorpay.OrderParams{
		AmountPaise: amountPaise,
		Currency:    "INR",
		Receipt:     deal.ID.String(),
		Notes: map[string]string{
			"deal_id":  deal.ID.String(),
			"grain_id": deal.GrainID.String(),
		},
	})
	if err != nil {
		return nil, err
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		won, err := s.repo.WithTx(tx).CASStatusWithPayment(ctx, deal.ID,
			enums.DealStatusAgreed, enums.DealStatusPaymentPending, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark deal payment pending")
		}
		if !won {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deal status changed concurrently")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	deal.Status = enums.DealStatusPaymentPending
	orderID := order.ID
	deal.PaymentID = &orderID

	lctx := s.logg.WithFields(ctx, map[string]any{
		"deal_id":  deal.ID.String(),
		"order_id": order.ID,
	})
	s.logg.Info(lctx, "payments.order_created")

	return &CreateOrderResponse{
		OrderID:     order.ID,
		AmountPaise: order.AmountPaise,
		Currency:    order.Currency,
		KeyID:       s.gateway.KeyID(),
		Deal:        deals.FromModel(deal),
	}, nil
}

func (s *service) VerifyCallback(ctx context.Context, actorID uuid.UUID, req VerifyRequest) (*VerifyResponse, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	// The signature check comes first so a tampered callback can never touch
	// deal state.
	if !s.gateway.VerifySignature(req.OrderID, req.PaymentID, req.Signature) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment signature")
	}

	deal, err := s.findDealByPaymentRef(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		return nil, err
	}
	// Verification is buyer-only, matching order creation.
	if deal.BuyerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the deal's buyer can verify payment")
	}

	// Gateways redeliver callbacks; the same payment landing twice is a
	// no-op success.
	if deal.Status == enums.DealStatusPaid && deal.PaymentID != nil && *deal.PaymentID == req.PaymentID {
		return &VerifyResponse{Verified: true, Deal: deals.FromModel(deal)}, nil
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		won, err := repo.CASStatusWithPayment(ctx, deal.ID,
			enums.DealStatusPaymentPending, enums.DealStatusPaid, req.PaymentID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark deal paid")
		}
		if won {
			return nil
		}
		current, err := repo.FindByIDBare(ctx, deal.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload deal")
		}
		if current.Status == enums.DealStatusPaid && current.PaymentID != nil && *current.PaymentID == req.PaymentID {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("deal is %s, expected payment_pending", current.Status))
	})
	if err != nil {
		return nil, err
	}

	deal.Status = enums.DealStatusPaid
	paymentID := req.PaymentID
	deal.PaymentID = &paymentID

	lctx := s.logg.WithFields(ctx, map[string]any{
		"deal_id":    deal.ID.String(),
		"payment_id": req.PaymentID,
	})
	s.logg.Info(lctx, "payments.verified")

	return &VerifyResponse{Verified: true, Deal: deals.FromModel(deal)}, nil
}

func (s *service) FetchPaymentDetails(ctx context.Context, actorID uuid.UUID, paymentID string) (*PaymentDetailsResponse, error) {
	if actorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if paymentID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "payment id required")
	}

	deal, err := s.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load deal by payment")
	}
	if !deal.InvolvesUser(actorID) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "deal does not involve user")
	}

	payment, err := s.gateway.FetchPayment(ctx, paymentID)
	if err != nil {
		// The local deal view still answers the request when the gateway is
		// down; the payment status is reported as unknown.
		lctx := s.logg.WithField(ctx, "payment_id", paymentID)
		s.logg.Warn(lctx, "payments.gateway_fetch_failed")
		return &PaymentDetailsResponse{
			PaymentID: paymentID,
			Status:    PaymentStatusUnknown,
			Deal:      deals.FromModel(deal),
		}, nil
	}

	return &PaymentDetailsResponse{
		PaymentID:   payment.ID,
		Status:      payment.Status,
		Method:      payment.Method,
		AmountPaise: payment.AmountPaise,
		Email:       payment.Email,
		Contact:     payment.Contact,
		Deal:        deals.FromModel(deal),
	}, nil
}

func (s *service) findDeal(ctx context.Context, dealID uuid.UUID) (*models.Deal, error) {
	deal, err := s.repo.FindByID(ctx, dealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load deal")
	}
	return deal, nil
}

// findDealByPaymentRef resolves the deal referenced by a callback. Before
// verification the deal carries the gateway order id; redelivered callbacks
// may arrive after it was swapped for the payment id.
func (s *service) findDealByPaymentRef(ctx context.Context, orderID, paymentID string) (*models.Deal, error) {
	deal, err := s.repo.FindByPaymentID(ctx, orderID)
	if err == nil {
		return deal, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load deal by order")
	}
	deal, err = s.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "deal not found for order")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load deal by payment")
	}
	return deal, nil
}
