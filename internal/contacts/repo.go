package contacts

import (
	"context"

	"github.com/chirag847/kisaaan/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository exposes contact persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a contacts repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new contact row.
func (r *Repository) Create(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	if err := r.db.WithContext(ctx).Create(contact).Error; err != nil {
		return nil, err
	}
	return contact, nil
}

// FindByID loads a contact without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	var contact models.Contact
	if err := r.db.WithContext(ctx).First(&contact, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// ListReceived returns inquiries addressed to the user, newest first.
func (r *Repository) ListReceived(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var rows []models.Contact
	err := r.db.WithContext(ctx).
		Preload("Grain").
		Preload("FromUser").
		Where("to_user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// ListSent returns inquiries the user sent, newest first.
func (r *Repository) ListSent(ctx context.Context, userID uuid.UUID) ([]models.Contact, error) {
	var rows []models.Contact
	err := r.db.WithContext(ctx).
		Preload("Grain").
		Preload("ToUser").
		Where("from_user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// MarkRead flips the read flag; returns false when the contact does not
// exist or is not addressed to the user.
func (r *Repository) MarkRead(ctx context.Context, id, toUserID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND to_user_id = ?", id, toUserID).
		UpdateColumn("read", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// MarkReplied flips the replied flag under the same recipient guard.
func (r *Repository) MarkReplied(ctx context.Context, id, toUserID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("id = ? AND to_user_id = ?", id, toUserID).
		UpdateColumns(map[string]any{"read": true, "replied": true})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// CountUnread returns the number of unread inquiries addressed to the user.
func (r *Repository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Contact{}).
		Where("to_user_id = ? AND read = ?", userID, false).
		Count(&count).
		Error
	return count, err
}
