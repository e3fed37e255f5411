package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

type ModerationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) *ModerationRepository {
	return &ModerationRepository{db: db}
}

func (r *ModerationRepository) Create(request *models.ModerationRequest) error {
	return r.db.Create(request).Error
}

func (r *ModerationRepository) GetPendingByUserID(userID uint) (*models.ModerationRequest, error) {
	var request models.ModerationRequest
	err := r.db.Where("user_id = ? AND status = ?", userID, models.ModerationPending).
		Order("created_at DESC").First(&request).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *ModerationRepository) Update(request *models.ModerationRequest) error {
	return r.db.Save(request).Error
}

func (r *ModerationRepository) GetPending() ([]models.ModerationRequest, error) {
	var requests []models.ModerationRequest
	err := r.db.Where("status = ?", models.ModerationPending).
		Order("created_at ASC").Find(&requests).Error
	return requests, err
}
