package grains

import (
	"context"
	"testing"
	"time"

	"github.com/chirag847/kisaaan/pkg/enums"
	pkgerrors "github.com/chirag847/kisaaan/pkg/errors"
	"github.com/chirag847/kisaaan/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type recordingRemover struct {
	removed []string
}

func (r *recordingRemover) RemoveByPublicPath(path string) error {
	r.removed = append(r.removed, path)
	return nil
}

func newTestService(t *testing.T) (Service, *Repository, *recordingRemover) {
	t.Helper()
	db := newTestDB(t)
	repo := NewRepository(db)
	remover := &recordingRemover{}
	svc, err := NewService(repo, remover, logger.New(logger.Options{ServiceName: "grains-test"}))
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo, remover
}

func createInput() CreateGrainInput {
	return CreateGrainInput{
		GrainType:       enums.GrainTypeWheat,
		Quantity:        decimal.NewFromInt(50),
		PricePerQuintal: decimal.NewFromInt(2100),
		Quality:         enums.GrainQualityPremium,
		Description:     "Lokwan wheat",
		Location:        "Indore",
		HarvestDate:     time.Now().AddDate(0, -2, 0),
		ImagePaths:      []string{"/uploads/grains/grain-a.jpg"},
	}
}

func TestCreateInitializesAvailableQuantity(t *testing.T) {
	svc, repo, _ := newTestService(t)
	farmerID := uuid.New()

	dto, err := svc.Create(context.Background(), farmerID, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !dto.AvailableQuantity.Equal(dto.Quantity) {
		t.Fatalf("expected available == quantity, got %s vs %s", dto.AvailableQuantity, dto.Quantity)
	}
	if dto.Status != enums.GrainStatusAvailable {
		t.Fatalf("expected available status, got %s", dto.Status)
	}
	if len(dto.Images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(dto.Images))
	}

	stored, err := repo.FindByIDBare(context.Background(), dto.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if stored.FarmerID != farmerID {
		t.Fatalf("farmer mismatch: %s", stored.FarmerID)
	}
}

func TestCreateRequiresImage(t *testing.T) {
	svc, _, _ := newTestService(t)
	input := createInput()
	input.ImagePaths = nil

	_, err := svc.Create(context.Background(), uuid.New(), input)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateQuantityResetsAvailable(t *testing.T) {
	svc, repo, _ := newTestService(t)
	farmerID := uuid.New()
	dto, err := svc.Create(context.Background(), farmerID, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Simulate stock partially consumed.
	if _, err := repo.DecrementAvailable(context.Background(), dto.ID, decimal.NewFromInt(20)); err != nil {
		t.Fatalf("decrement: %v", err)
	}

	newQty := decimal.NewFromInt(75)
	updated, err := svc.Update(context.Background(), farmerID, dto.ID, UpdateGrainRequest{Quantity: &newQty})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.Quantity.Equal(newQty) || !updated.AvailableQuantity.Equal(newQty) {
		t.Fatalf("expected quantity reset, got qty=%s available=%s", updated.Quantity, updated.AvailableQuantity)
	}
}

func TestUpdateRejectsNonOwner(t *testing.T) {
	svc, _, _ := newTestService(t)
	dto, err := svc.Create(context.Background(), uuid.New(), createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	price := decimal.NewFromInt(9999)
	_, err = svc.Update(context.Background(), uuid.New(), dto.ID, UpdateGrainRequest{PricePerQuintal: &price})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestDeleteRemovesStoredFiles(t *testing.T) {
	svc, _, remover := newTestService(t)
	farmerID := uuid.New()
	dto, err := svc.Create(context.Background(), farmerID, createInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Delete(context.Background(), farmerID, dto.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(remover.removed) != 1 || remover.removed[0] != "/uploads/grains/grain-a.jpg" {
		t.Fatalf("expected stored file cleanup, got %v", remover.removed)
	}

	_, err = svc.Get(context.Background(), dto.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestGetUnknownGrainIsNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Get(context.Background(), uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
