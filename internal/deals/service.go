package deals

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chirag847/kisaaan/internal/grains"
	"github.com/chirag847/kisaaan/pkg/config"
	"github.com/chirag847/kisaaan/pkg/db"
	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Actor identifies the requester on deal operations. IsAdmin reflects the
// system_role claim, not the marketplace role.
type Actor struct {
	UserID  uuid.UUID
	IsAdmin bool
}

// SetStatusInput carries a lifecycle move.
type SetStatusInput struct {
	Status       enums.DealStatus
	DeliveryDate *time.Time
}

// Service defines the behavior needed by the deals controller.
type Service interface {
	Create(ctx context.Context, buyerID uuid.UUID, req CreateDealRequest) (*DealDTO, error)
	SetStatus(ctx context.Context, actor Actor, dealID uuid.UUID, input SetStatusInput) (*DealDTO, error)
	Get(ctx context.Context, actor Actor, dealID uuid.UUID) (*DealDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]DealDTO, error)
}

type service struct {
	db     *db.Client
	repo   *Repository
	grains *grains.Repository
	flags  config.FeatureFlagsConfig
	logg   *logger.Logger
}

// ServiceParams bundles the dependencies required to build a deals service.
type ServiceParams struct {
	DB         *db.Client
	Repo       *Repository
	GrainsRepo *grains.Repository
	Flags      config.FeatureFlagsConfig
	Logger     *logger.Logger
}

// NewService constructs a deals service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("deals repository required")
	}
	if params.GrainsRepo == nil {
		return nil, fmt.Errorf("grains repository required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		db:     params.DB,
		repo:   params.Repo,
		grains: params.GrainsRepo,
		flags:  params.Flags,
		logg:   params.Logger,
	}, nil
}

func (s *service) Create(ctx context.Context, buyerID uuid.UUID, req CreateDealRequest) (*DealDTO, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if req.AgreedPrice.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agreed price must be positive")
	}

	grain, err := s.grains.FindByIDBare(ctx, req.GrainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grain not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load grain")
	}
	if grain.FarmerID == buyerID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot create a deal on your own listing")
	}
	if grain.Status != enums.GrainStatusAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "grain is not available")
	}
	if req.Quantity.GreaterThan(grain.AvailableQuantity) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient quantity available")
	}

	deal := &models.Deal{
		ID:              uuid.New(),
		GrainID:         grain.ID,
		FarmerID:        grain.FarmerID,
		BuyerID:         buyerID,
		Quantity:        req.Quantity,
		AgreedPrice:     req.AgreedPrice,
		TotalAmount:     req.Quantity.Mul(req.AgreedPrice),
		Status:          enums.DealStatusNegotiating,
		DeliveryDate:    req.DeliveryDate,
		DeliveryAddress: req.DeliveryAddress,
		Notes:           req.Notes,
	}
	// Quantity is not reserved at creation; only completion moves stock.
	if _, err := s.repo.Create(ctx, deal); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create deal")
	}

	lctx := s.logg.WithDealID(ctx, deal.ID.String())
	s.logg.Info(lctx, "deals.created")

	dto := FromModel(deal)
	return &dto, nil
}

func (s *service) SetStatus(ctx context.Context, actor Actor, dealID uuid.UUID, input SetStatusInput) (*DealDTO, error) {
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid deal status")
	}

	deal, err := s.loadDealForActor(ctx, actor, dealID)
	if err != nil {
		return nil, err
	}

	// Repeating the current status is a no-op success so client retries are
	// harmless.
	if deal.Status == input.Status {
		return s.Get(ctx, actor, dealID)
	}

	override := s.flags.DealStatusOverride && actor.IsAdmin
	if !deal.Status.CanTransition(input.Status) && !override {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move deal from %s to %s", deal.Status, input.Status))
	}

	prior := deal.Status
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		dealRepo := s.repo.WithTx(tx)
		grainRepo := s.grains.WithTx(tx)

		won, err := dealRepo.CASStatus(ctx, deal.ID, prior, input.Status)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update deal status")
		}
		if !won {
			current, err := dealRepo.FindByIDBare(ctx, deal.ID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload deal")
			}
			if current.Status == input.Status {
				// A concurrent duplicate already applied this move, together
				// with its side effect.
				return nil
			}
			return pkgerrors.New(pkgerrors.CodeStateConflict, "deal status changed concurrently")
		}

		// Inventory moves only inside the transaction of the CAS winner, so
		// duplicates can never double-apply it.
		switch input.Status {
		case enums.DealStatusCompleted:
			ok, err := grainRepo.DecrementAvailable(ctx, deal.GrainID, deal.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decrement available quantity")
			}
			if !ok {
				return pkgerrors.New(pkgerrors.CodeConflict, "insufficient quantity available")
			}
		case enums.DealStatusCancelled:
			if prior.HoldsReservation() {
				if err := grainRepo.RestoreAvailable(ctx, deal.GrainID, deal.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "restore available quantity")
				}
			}
		}

		if input.DeliveryDate != nil {
			if err := tx.WithContext(ctx).
				Model(&models.Deal{}).
				Where("id = ?", deal.ID).
				UpdateColumn("delivery_date", *input.DeliveryDate).Error; err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update delivery date")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	lctx := s.logg.WithFields(ctx, map[string]any{
		"deal_id": deal.ID.String(),
		"from":    prior.String(),
		"to":      input.Status.String(),
	})
	s.logg.Info(lctx, "deals.status_changed")

	return s.Get(ctx, actor, dealID)
}

func (s *service) Get(ctx context.Context, actor Actor, dealID uuid.UUID) (*DealDTO, error) {
	deal, err := s.findDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !deal.InvolvesUser(actor.UserID) && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "deal does not involve user")
	}
	dto := FromModel(deal)
	return &dto, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]DealDTO, error) {
	rows, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list deals")
	}
	dtos := make([]DealDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos, nil
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

func (s *service) loadDealForActor(ctx context.Context, actor Actor, dealID uuid.UUID) (*models.Deal, error) {
	if actor.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	deal, err := s.findDeal(ctx, dealID)
	if err != nil {
		return nil, err
	}
	if !deal.InvolvesUser(actor.UserID) && !actor.IsAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "deal does not involve user")
	}
	return deal, nil
}
