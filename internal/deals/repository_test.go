package deals

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
)

func setupDealRepoDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&models.User{}, &models.Grain{}, &models.GrainImage{}, &models.Deal{}))
	return conn
}

func seedDeal(t *testing.T, conn *gorm.DB, status enums.DealStatus) *models.Deal {
	t.Helper()
	farmer := mustCreateUser(t, conn, enums.UserRoleFarmer)
	buyer := mustCreateUser(t, conn, enums.UserRoleBuyer)
	grain := mustCreateGrain(t, conn, farmer.ID)

	deal := &models.Deal{
		ID:          uuid.New(),
		GrainID:     grain.ID,
		FarmerID:    farmer.ID,
		BuyerID:     buyer.ID,
		Quantity:    decimal.NewFromInt(10),
		AgreedPrice: decimal.NewFromInt(2000),
		TotalAmount: decimal.NewFromInt(20000),
		Status:      status,
	}
	require.NoError(t, conn.Create(deal).Error)
	return deal
}

func TestCASStatusSingleWinner(t *testing.T) {
	conn := setupDealRepoDB(t)
	repo := NewRepository(conn)
	deal := seedDeal(t, conn, enums.DealStatusNegotiating)
	ctx := context.Background()

	moved, err := repo.CASStatus(ctx, deal.ID, enums.DealStatusNegotiating, enums.DealStatusAgreed)
	require.NoError(t, err)
	assert.True(t, moved)

	// the prior status no longer matches, so a second identical move loses
	moved, err = repo.CASStatus(ctx, deal.ID, enums.DealStatusNegotiating, enums.DealStatusAgreed)
	require.NoError(t, err)
	assert.False(t, moved)

	reloaded, err := repo.FindByIDBare(ctx, deal.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.DealStatusAgreed, reloaded.Status)
}

func TestCASStatusWithPaymentStoresReference(t *testing.T) {
	conn := setupDealRepoDB(t)
	repo := NewRepository(conn)
	deal := seedDeal(t, conn, enums.DealStatusAgreed)
	ctx := context.Background()

	moved, err := repo.CASStatusWithPayment(ctx, deal.ID, enums.DealStatusAgreed, enums.DealStatusPaymentPending, "order_abc")
	require.NoError(t, err)
	require.True(t, moved)

	found, err := repo.FindByPaymentID(ctx, "order_abc")
	require.NoError(t, err)
	assert.Equal(t, deal.ID, found.ID)
	assert.Equal(t, enums.DealStatusPaymentPending, found.Status)

	_, err = repo.FindByPaymentID(ctx, "order_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListForUserMatchesEitherParty(t *testing.T) {
	conn := setupDealRepoDB(t)
	repo := NewRepository(conn)
	deal := seedDeal(t, conn, enums.DealStatusNegotiating)
	ctx := context.Background()

	asFarmer, err := repo.ListForUser(ctx, deal.FarmerID)
	require.NoError(t, err)
	require.Len(t, asFarmer, 1)

	asBuyer, err := repo.ListForUser(ctx, deal.BuyerID)
	require.NoError(t, err)
	require.Len(t, asBuyer, 1)

	asStranger, err := repo.ListForUser(ctx, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, asStranger)
}
