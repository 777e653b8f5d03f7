package deals

import (
	"context"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/chirag847/kisaaan/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository wires together deal persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new deal row.
func (r *Repository) Create(ctx context.Context, deal *models.Deal) (*models.Deal, error) {
	if err := r.db.WithContext(ctx).Create(deal).Error; err != nil {
		return nil, err
	}
	return deal, nil
}

// FindByID loads a deal with its grain and both parties.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Preload("Grain").
		Preload("Farmer").
		Preload("Buyer").
		First(&deal, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// FindByIDBare loads the deal row without associations.
func (r *Repository) FindByIDBare(ctx context.Context, id uuid.UUID) (*models.Deal, error) {
	var deal models.Deal
	if err := r.db.WithContext(ctx).First(&deal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &deal, nil
}

// FindByPaymentID loads the deal referencing a gateway order or payment id.
func (r *Repository) FindByPaymentID(ctx context.Context, paymentID string) (*models.Deal, error) {
	var deal models.Deal
	err := r.db.WithContext(ctx).
		Preload("Grain").
		First(&deal, "payment_id = ?", paymentID).
		Error
	if err != nil {
		return nil, err
	}
	return &deal, nil
}

// ListForUser returns the deals the user participates in, on either side,
// newest first.
func (r *Repository) ListForUser(ctx context.Context, userID uuid.UUID) ([]models.Deal, error) {
	var rows []models.Deal
	err := r.db.WithContext(ctx).
		Preload("Grain").
		Preload("Farmer").
		Preload("Buyer").
		Where("farmer_id = ? OR buyer_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// CASStatus flips the deal's status only when the stored value still matches
// prior. Exactly one of two concurrent writers observes RowsAffected == 1.
func (r *Repository) CASStatus(ctx context.Context, dealID uuid.UUID, prior, next enums.DealStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ? AND status = ?", dealID, prior).
		UpdateColumn("status", next)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CASStatusWithPayment flips the status and stores the payment id in the same
// guarded update.
func (r *Repository) CASStatusWithPayment(ctx context.Context, dealID uuid.UUID, prior, next enums.DealStatus, paymentID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Deal{}).
		Where("id = ? AND status = ?", dealID, prior).
		UpdateColumns(map[string]any{
			"status":     next,
			"payment_id": paymentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
