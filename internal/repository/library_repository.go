package repository

import (
	"errors"

	"gorm.io/gorm"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

type LibraryRepository struct {
	db *gorm.DB
}

func NewLibraryRepository(db *gorm.DB) *LibraryRepository {
	return &LibraryRepository{db: db}
}

func (r *LibraryRepository) GetByUserID(userID uint) (*models.PhotoLibrary, error) {
	var library models.PhotoLibrary
	err := r.db.Where("user_id = ?", userID).First(&library).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &library, nil
}

// GetOrCreate returns the user's library, creating an empty document on
// first touch.
func (r *LibraryRepository) GetOrCreate(userID uint) (*models.PhotoLibrary, error) {
	library, err := r.GetByUserID(userID)
	if err == nil {
		return library, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	library = &models.PhotoLibrary{
		UserID:  userID,
		Folders: []string{},
		Photos:  map[string][]models.Photo{},
	}
	if err := r.db.Create(library).Error; err != nil {
		return nil, err
	}
	return library, nil
}

// Save writes the whole metadata document back. Folder list and photo map
// travel together so a folder and its namespace persist atomically.
func (r *LibraryRepository) Save(library *models.PhotoLibrary) error {
	return r.db.Save(library).Error
}
