package deals

import (
	"context"
	"fmt"
	"testing"
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
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type dealTestEnv struct {
	svc    Service
	db     *gorm.DB
	farmer *models.User
	buyer  *models.User
	grain  *models.Grain
}

func newDealTestEnv(t *testing.T, flags config.FeatureFlagsConfig) *dealTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}, &models.Grain{}, &models.GrainImage{}, &models.Deal{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	farmer := mustCreateUser(t, conn, enums.UserRoleFarmer)
	buyer := mustCreateUser(t, conn, enums.UserRoleBuyer)
	grain := mustCreateGrain(t, conn, farmer.ID)

	svc, err := NewService(ServiceParams{
		DB:         db.NewWithConn(conn),
		Repo:       NewRepository(conn),
		GrainsRepo: grains.NewRepository(conn),
		Flags:      flags,
		Logger:     logger.New(logger.Options{ServiceName: "deals-test"}),
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return &dealTestEnv{svc: svc, db: conn, farmer: farmer, buyer: buyer, grain: grain}
}

func mustCreateUser(t *testing.T, tx *gorm.DB, role enums.UserRole) *models.User {
	t.Helper()
	user := &models.User{
		ID:           uuid.New(),
		Email:        fmt.Sprintf("%s_%s@example.com", role, uuid.NewString()),
		PasswordHash: "hash",
		Name:         "Deal Tester",
		Phone:        "9876543210",
		Role:         role,
	}
	if err := tx.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func mustCreateGrain(t *testing.T, tx *gorm.DB, farmerID uuid.UUID) *models.Grain {
	t.Helper()
	grain := &models.Grain{
		ID:                uuid.New(),
		FarmerID:          farmerID,
		GrainType:         enums.GrainTypeWheat,
		Quantity:          decimal.NewFromInt(100),
		AvailableQuantity: decimal.NewFromInt(100),
		PricePerQuintal:   decimal.NewFromInt(2000),
		Quality:           enums.GrainQualityGood,
		Description:       "test lot",
		Location:          "Nashik",
		HarvestDate:       time.Now().AddDate(0, -1, 0),
		Status:            enums.GrainStatusAvailable,
	}
	if err := tx.Create(grain).Error; err != nil {
		t.Fatalf("create grain: %v", err)
	}
	return grain
}

func (e *dealTestEnv) availableQuantity(t *testing.T) decimal.Decimal {
	t.Helper()
	var grain models.Grain
	if err := e.db.First(&grain, "id = ?", e.grain.ID).Error; err != nil {
		t.Fatalf("reload grain: %v", err)
	}
	return grain.AvailableQuantity
}

func (e *dealTestEnv) mustCreateDeal(t *testing.T, qty int64) *DealDTO {
	t.Helper()
	dto, err := e.svc.Create(context.Background(), e.buyer.ID, CreateDealRequest{
		GrainID:     e.grain.ID,
		Quantity:    decimal.NewFromInt(qty),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	if err != nil {
		t.Fatalf("create deal: %v", err)
	}
	return dto
}

func (e *dealTestEnv) mustAdvance(t *testing.T, actor Actor, dealID uuid.UUID, statuses ...enums.DealStatus) *DealDTO {
	t.Helper()
	var dto *DealDTO
	var err error
	for _, status := range statuses {
		dto, err = e.svc.SetStatus(context.Background(), actor, dealID, SetStatusInput{Status: status})
		if err != nil {
			t.Fatalf("set status %s: %v", status, err)
		}
	}
	return dto
}

func assertCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error", code)
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != code {
		t.Fatalf("expected %s, got %v", code, err)
	}
}

func TestCreateDealLeavesInventoryUntouched(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	dto := env.mustCreateDeal(t, 30)

	if dto.Status != enums.DealStatusNegotiating {
		t.Fatalf("expected negotiating, got %s", dto.Status)
	}
	if !dto.TotalAmount.Equal(decimal.NewFromInt(60000)) {
		t.Fatalf("expected total 60000, got %s", dto.TotalAmount)
	}
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(100)) {
		t.Fatal("creation must not reserve quantity")
	}
}

func TestCreateDealValidation(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	ctx := context.Background()

	_, err := env.svc.Create(ctx, env.buyer.ID, CreateDealRequest{
		GrainID:     uuid.New(),
		Quantity:    decimal.NewFromInt(10),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	assertCode(t, err, pkgerrors.CodeNotFound)

	_, err = env.svc.Create(ctx, env.farmer.ID, CreateDealRequest{
		GrainID:     env.grain.ID,
		Quantity:    decimal.NewFromInt(10),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	assertCode(t, err, pkgerrors.CodeValidation)

	_, err = env.svc.Create(ctx, env.buyer.ID, CreateDealRequest{
		GrainID:     env.grain.ID,
		Quantity:    decimal.NewFromInt(150),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	assertCode(t, err, pkgerrors.CodeConflict)

	if err := env.db.Model(&models.Grain{}).Where("id = ?", env.grain.ID).
		UpdateColumn("status", enums.GrainStatusSold).Error; err != nil {
		t.Fatalf("mark sold: %v", err)
	}
	_, err = env.svc.Create(ctx, env.buyer.ID, CreateDealRequest{
		GrainID:     env.grain.ID,
		Quantity:    decimal.NewFromInt(10),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	assertCode(t, err, pkgerrors.CodeConflict)
}

func TestLifecycleCompletedDecrementsOnce(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)
	buyer := Actor{UserID: env.buyer.ID}
	farmer := Actor{UserID: env.farmer.ID}

	env.mustAdvance(t, farmer, deal.ID,
		enums.DealStatusAgreed,
		enums.DealStatusPaymentPending,
		enums.DealStatusPaid,
	)
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(100)) {
		t.Fatal("quantity must not move before completion")
	}

	final := env.mustAdvance(t, buyer, deal.ID, enums.DealStatusCompleted)
	if final.Status != enums.DealStatusCompleted {
		t.Fatalf("expected completed, got %s", final.Status)
	}
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70 available, got %s", env.availableQuantity(t))
	}

	// Retrying the same transition is a no-op and never double-decrements.
	again, err := env.svc.SetStatus(context.Background(), buyer, deal.ID, SetStatusInput{Status: enums.DealStatusCompleted})
	if err != nil {
		t.Fatalf("idempotent retry: %v", err)
	}
	if again.Status != enums.DealStatusCompleted {
		t.Fatalf("expected completed, got %s", again.Status)
	}
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(70)) {
		t.Fatalf("retry double-decremented: %s", env.availableQuantity(t))
	}
}

func TestCompletedDealShrinksFutureCapacity(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)
	buyer := Actor{UserID: env.buyer.ID}

	env.mustAdvance(t, buyer, deal.ID,
		enums.DealStatusAgreed,
		enums.DealStatusPaymentPending,
		enums.DealStatusPaid,
		enums.DealStatusCompleted,
	)
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(70)) {
		t.Fatalf("expected 70 available, got %s", env.availableQuantity(t))
	}

	// New deals are sized against the reduced availability.
	_, err := env.svc.Create(context.Background(), env.buyer.ID, CreateDealRequest{
		GrainID:     env.grain.ID,
		Quantity:    decimal.NewFromInt(80),
		AgreedPrice: decimal.NewFromInt(2000),
	})
	assertCode(t, err, pkgerrors.CodeConflict)

	if _, err := env.svc.Create(context.Background(), env.buyer.ID, CreateDealRequest{
		GrainID:     env.grain.ID,
		Quantity:    decimal.NewFromInt(70),
		AgreedPrice: decimal.NewFromInt(2000),
	}); err != nil {
		t.Fatalf("deal for remaining stock: %v", err)
	}
}

func TestCancelFromNegotiatingRestoresNothing(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)

	dto := env.mustAdvance(t, Actor{UserID: env.buyer.ID}, deal.ID, enums.DealStatusCancelled)
	if dto.Status != enums.DealStatusCancelled {
		t.Fatalf("expected cancelled, got %s", dto.Status)
	}
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected untouched quantity, got %s", env.availableQuantity(t))
	}
}

func TestCancelFromAgreedRestoresCapped(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)
	farmer := Actor{UserID: env.farmer.ID}

	env.mustAdvance(t, farmer, deal.ID, enums.DealStatusAgreed)
	env.mustAdvance(t, farmer, deal.ID, enums.DealStatusCancelled)

	// Nothing was decremented before completion, so the restore caps at the
	// listing's total quantity instead of overshooting it.
	if !env.availableQuantity(t).Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected capped restore at 100, got %s", env.availableQuantity(t))
	}
}

func TestTransitionTableEnforced(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)

	_, err := env.svc.SetStatus(context.Background(), Actor{UserID: env.buyer.ID}, deal.ID,
		SetStatusInput{Status: enums.DealStatusPaid})
	assertCode(t, err, pkgerrors.CodeStateConflict)

	env.mustAdvance(t, Actor{UserID: env.buyer.ID}, deal.ID, enums.DealStatusCancelled)
	_, err = env.svc.SetStatus(context.Background(), Actor{UserID: env.buyer.ID}, deal.ID,
		SetStatusInput{Status: enums.DealStatusAgreed})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestAdminOverrideSkipsTransitionTable(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{DealStatusOverride: true})
	deal := env.mustCreateDeal(t, 30)
	admin := Actor{UserID: uuid.New(), IsAdmin: true}

	dto, err := env.svc.SetStatus(context.Background(), admin, deal.ID,
		SetStatusInput{Status: enums.DealStatusPaid})
	if err != nil {
		t.Fatalf("admin override: %v", err)
	}
	if dto.Status != enums.DealStatusPaid {
		t.Fatalf("expected paid, got %s", dto.Status)
	}

	// Without the flag the same actor is rejected.
	env2 := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal2 := env2.mustCreateDeal(t, 30)
	_, err = env2.svc.SetStatus(context.Background(), admin, deal2.ID,
		SetStatusInput{Status: enums.DealStatusPaid})
	assertCode(t, err, pkgerrors.CodeStateConflict)
}

func TestPartyChecks(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)
	stranger := Actor{UserID: uuid.New()}

	_, err := env.svc.Get(context.Background(), stranger, deal.ID)
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = env.svc.SetStatus(context.Background(), stranger, deal.ID,
		SetStatusInput{Status: enums.DealStatusAgreed})
	assertCode(t, err, pkgerrors.CodeForbidden)

	_, err = env.svc.Get(context.Background(), Actor{UserID: env.farmer.ID}, deal.ID)
	if err != nil {
		t.Fatalf("farmer get: %v", err)
	}
}

func TestListForUserCoversBothSides(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	env.mustCreateDeal(t, 10)
	env.mustCreateDeal(t, 20)

	buyerDeals, err := env.svc.ListForUser(context.Background(), env.buyer.ID)
	if err != nil {
		t.Fatalf("buyer list: %v", err)
	}
	farmerDeals, err := env.svc.ListForUser(context.Background(), env.farmer.ID)
	if err != nil {
		t.Fatalf("farmer list: %v", err)
	}
	if len(buyerDeals) != 2 || len(farmerDeals) != 2 {
		t.Fatalf("expected both parties to see 2 deals, got %d and %d", len(buyerDeals), len(farmerDeals))
	}

	stranger, err := env.svc.ListForUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("stranger list: %v", err)
	}
	if len(stranger) != 0 {
		t.Fatalf("expected empty list, got %d", len(stranger))
	}
}

func TestImmutablePartiesAcrossStatusUpdates(t *testing.T) {
	env := newDealTestEnv(t, config.FeatureFlagsConfig{})
	deal := env.mustCreateDeal(t, 30)
	farmer := Actor{UserID: env.farmer.ID}

	env.mustAdvance(t, farmer, deal.ID, enums.DealStatusAgreed, enums.DealStatusPaymentPending)

	var stored models.Deal
	if err := env.db.First(&stored, "id = ?", deal.ID).Error; err != nil {
		t.Fatalf("reload deal: %v", err)
	}
	if stored.FarmerID != env.farmer.ID || stored.BuyerID != env.buyer.ID {
		t.Fatal("deal parties must never change")
	}
}
