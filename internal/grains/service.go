package grains

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chirag847/kisaaan/internal/media"
	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/chirag847/kisaaan/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the grains controller.
type Service interface {
	Create(ctx context.Context, farmerID uuid.UUID, input CreateGrainInput) (*GrainDTO, error)
	Get(ctx context.Context, id uuid.UUID) (*GrainDTO, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*GrainListResponse, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]GrainDTO, error)
	Update(ctx context.Context, actorID, grainID uuid.UUID, req UpdateGrainRequest) (*GrainDTO, error)
	Delete(ctx context.Context, actorID, grainID uuid.UUID) error
}

type imageRemover interface {
	RemoveByPublicPath(publicPath string) error
}

type service struct {
	repo    *Repository
	storage imageRemover
	logg    *logger.Logger
}

// NewService constructs a grains service.
func NewService(repo *Repository, storage imageRemover, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("grains repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if storage == nil {
		storage = noopRemover{}
	}
	return &service{repo: repo, storage: storage, logg: logg}, nil
}

type noopRemover struct{}

func (noopRemover) RemoveByPublicPath(string) error { return nil }

var _ imageRemover = (*media.Storage)(nil)

func (s *service) Create(ctx context.Context, farmerID uuid.UUID, input CreateGrainInput) (*GrainDTO, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.GrainType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid grain type")
	}
	if !input.Quality.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid grain quality")
	}
	if input.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if input.PricePerQuintal.LessThanOrEqual(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
	}
	if len(input.ImagePaths) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one image is required")
	}

	images := make([]models.GrainImage, 0, len(input.ImagePaths))
	for i, path := range input.ImagePaths {
		images = append(images, models.GrainImage{
			ID:       uuid.New(),
			Path:     path,
			Position: i,
		})
	}

	grain := &models.Grain{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		GrainType:         input.GrainType,
		Quantity:          input.Quantity,
		AvailableQuantity: input.Quantity,
		PricePerQuintal:   input.PricePerQuintal,
		Quality:           input.Quality,
		Description:       strings.TrimSpace(input.Description),
		Location:          strings.TrimSpace(input.Location),
		HarvestDate:       input.HarvestDate,
		MoisturePercent:   input.MoisturePercent,
		Organic:           input.Organic,
		Status:            enums.GrainStatusAvailable,
		Images:            images,
	}

	if _, err := s.repo.Create(ctx, grain); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create grain")
	}
	dto := FromModel(grain)
	return &dto, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*GrainDTO, error) {
	grain, err := s.findGrain(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(grain)
	return &dto, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*GrainListResponse, error) {
	rows, total, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list grains")
	}

	dtos := make([]GrainDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return &GrainListResponse{
		Grains: dtos,
		Meta:   pagination.NewMeta(params, total),
	}, nil
}

func (s *service) ListByFarmer(ctx context.Context, farmerID uuid.UUID) ([]GrainDTO, error) {
	rows, err := s.repo.ListByFarmer(ctx, farmerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmer grains")
	}
	dtos := make([]GrainDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, actorID, grainID uuid.UUID, req UpdateGrainRequest) (*GrainDTO, error) {
	grain, err := s.findOwnedGrain(ctx, actorID, grainID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Quantity != nil {
		if req.Quantity.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		// A new total resets the remaining stock.
		updates["quantity"] = *req.Quantity
		updates["available_quantity"] = *req.Quantity
	}
	if req.PricePerQuintal != nil {
		if req.PricePerQuintal.LessThanOrEqual(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be positive")
		}
		updates["price_per_quintal"] = *req.PricePerQuintal
	}
	if req.Quality != nil {
		quality, err := enums.ParseGrainQuality(*req.Quality)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid grain quality")
		}
		updates["quality"] = quality
	}
	if req.Description != nil {
		updates["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Location != nil {
		updates["location"] = strings.TrimSpace(*req.Location)
	}
	if req.MoisturePercent != nil {
		updates["moisture_percent"] = *req.MoisturePercent
	}
	if req.Organic != nil {
		updates["organic"] = *req.Organic
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, grain.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update grain")
		}
	}
	return s.Get(ctx, grain.ID)
}

func (s *service) Delete(ctx context.Context, actorID, grainID uuid.UUID) error {
	grain, err := s.findOwnedGrain(ctx, actorID, grainID)
	if err != nil {
		return err
	}

	paths, err := s.repo.ListImagePaths(ctx, grain.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list grain images")
	}
	if err := s.repo.Delete(ctx, grain.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete grain")
	}

	for _, path := range paths {
		if err := s.storage.RemoveByPublicPath(path); err != nil {
			lctx := s.logg.WithFields(ctx, map[string]any{
				"grain_id": grain.ID.String(),
				"path":     path,
				"error":    err.Error(),
			})
			s.logg.Warn(lctx, "grains.image_cleanup_failed")
		}
	}
	return nil
}

func (s *service) findGrain(ctx context.Context, id uuid.UUID) (*models.Grain, error) {
	grain, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grain not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load grain")
	}
	return grain, nil
}

func (s *service) findOwnedGrain(ctx context.Context, actorID, grainID uuid.UUID) (*models.Grain, error) {
	grain, err := s.findGrain(ctx, grainID)
	if err != nil {
		return nil, err
	}
	if grain.FarmerID != actorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "grain does not belong to user")
	}
	return grain, nil
}
