package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Save upserts the profile keyed by user ID. Submission overwrites any
// previous record for the same user (resubmission after a reject).
func (r *ProfileRepository) Save(profile *models.Profile) error {
	var existing models.Profile
	err := r.db.Where("user_id = ?", profile.UserID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.db.Create(profile).Error
	}
	if err != nil {
		return err
	}

	profile.ID = existing.ID
	profile.CreatedAt = existing.CreatedAt
	return r.db.Save(profile).Error
}

func (r *ProfileRepository) GetByUserID(userID uint) (*models.Profile, error) {
	var profile models.Profile
	err := r.db.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *ProfileRepository) Exists(userID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Profile{}).Where("user_id = ?", userID).Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) Update(profile *models.Profile) error {
	return r.db.Save(profile).Error
}
