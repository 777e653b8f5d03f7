package contacts

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/chirag847/kisaaan/internal/grains"
	"github.com/chirag847/kisaaan/pkg/db/models"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service defines the behavior needed by the contacts controller.
type Service interface {
	Send(ctx context.Context, fromUserID uuid.UUID, req SendRequest) (*ContactDTO, error)
	ListReceived(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
	ListSent(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error)
	MarkRead(ctx context.Context, userID, contactID uuid.UUID) error
	MarkReplied(ctx context.Context, userID, contactID uuid.UUID) error
	UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
}

type service struct {
	repo   *Repository
	grains *grains.Repository
}

// NewService constructs a contacts service.
func NewService(repo *Repository, grainsRepo *grains.Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("contacts repository required")
	}
	if grainsRepo == nil {
		return nil, fmt.Errorf("grains repository required")
	}
	return &service{repo: repo, grains: grainsRepo}, nil
}

func (s *service) Send(ctx context.Context, fromUserID uuid.UUID, req SendRequest) (*ContactDTO, error) {
	if fromUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	grain, err := s.grains.FindByIDBare(ctx, req.GrainID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "grain not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load grain")
	}
	if grain.FarmerID == fromUserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot contact yourself about your own listing")
	}

	contact := &models.Contact{
		ID:           uuid.New(),
		GrainID:      grain.ID,
		FromUserID:   fromUserID,
		ToUserID:     grain.FarmerID,
		Subject:      strings.TrimSpace(req.Subject),
		Message:      strings.TrimSpace(req.Message),
		ContactEmail: strings.ToLower(strings.TrimSpace(req.ContactEmail)),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
	}
	if _, err := s.repo.Create(ctx, contact); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create contact")
	}

	dto := FromModel(contact)
	return &dto, nil
}

func (s *service) ListReceived(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	rows, err := s.repo.ListReceived(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list received contacts")
	}
	return toDTOs(rows), nil
}

func (s *service) ListSent(ctx context.Context, userID uuid.UUID) ([]ContactDTO, error) {
	rows, err := s.repo.ListSent(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list sent contacts")
	}
	return toDTOs(rows), nil
}

func (s *service) MarkRead(ctx context.Context, userID, contactID uuid.UUID) error {
	ok, err := s.repo.MarkRead(ctx, contactID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark contact read")
	}
	if !ok {
		// The recipient guard and the existence check share one conditional
		// update; hiding which failed avoids leaking other users' inboxes.
		return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}
	return nil
}

func (s *service) MarkReplied(ctx context.Context, userID, contactID uuid.UUID) error {
	ok, err := s.repo.MarkReplied(ctx, contactID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mark contact replied")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "contact not found")
	}
	return nil
}

func (s *service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count unread contacts")
	}
	return count, nil
}

func toDTOs(rows []models.Contact) []ContactDTO {
	dtos := make([]ContactDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, FromModel(&rows[i]))
	}
	return dtos
}
