package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PublicProfile is the directory card shown to anyone; it never carries
// credentials or contact details beyond what the user listed publicly.
type PublicProfile struct {
	ID       uuid.UUID      `json:"id"`
	Name     string         `json:"name"`
	Role     enums.UserRole `json:"role"`
	Address  *string        `json:"address,omitempty"`
	Verified bool           `json:"verified"`
}

// FarmersDirectory wraps a page of farmer profiles.
type FarmersDirectory struct {
	Farmers []PublicProfile `json:"farmers"`
	Meta    pagination.Meta `json:"meta"`
}

// Service exposes public user reads.
type Service interface {
	PublicProfileByID(ctx context.Context, id uuid.UUID) (*PublicProfile, error)
	ListFarmers(ctx context.Context, params pagination.Params) (*FarmersDirectory, error)
}

type service struct {
	db *gorm.DB
}

// NewService constructs a users service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle required")
	}
	return &service{db: db}, nil
}

func (s *service) PublicProfileByID(ctx context.Context, id uuid.UUID) (*PublicProfile, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	profile := publicProfile(&user)
	return &profile, nil
}

func (s *service) ListFarmers(ctx context.Context, params pagination.Params) (*FarmersDirectory, error) {
	qb := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", enums.UserRoleFarmer)

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count farmers")
	}

	var rows []models.User
	err := qb.
		Order("created_at DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list farmers")
	}

	profiles := make([]PublicProfile, 0, len(rows))
	for i := range rows {
		profiles = append(profiles, publicProfile(&rows[i]))
	}
	return &FarmersDirectory{
		Farmers: profiles,
		Meta:    pagination.NewMeta(params, total),
	}, nil
}

func publicProfile(u *models.User) PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Role:     u.Role,
		Address:  u.Address,
		Verified: u.Verified,
	}
}
