package service

import (
	"context"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

// Repository interfaces the services depend on. The gorm implementations in
// internal/repository satisfy them; tests substitute fakes.

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	EmailExists(email string) (bool, error)
}

type ProfileRepository interface {
	Save(profile *models.Profile) error
	GetByUserID(userID uint) (*models.Profile, error)
	Exists(userID uint) (bool, error)
	Update(profile *models.Profile) error
}

type LibraryRepository interface {
	GetByUserID(userID uint) (*models.PhotoLibrary, error)
	GetOrCreate(userID uint) (*models.PhotoLibrary, error)
	Save(library *models.PhotoLibrary) error
}

type ModerationRepository interface {
	Create(request *models.ModerationRequest) error
	GetPendingByUserID(userID uint) (*models.ModerationRequest, error)
	Update(request *models.ModerationRequest) error
	GetPending() ([]models.ModerationRequest, error)
}

// Notifier is the messaging channel: moderation requests go to the review
// channel, verification results go straight to the owner.
type Notifier interface {
	SendModerationRequest(ctx context.Context, subject uint, username string, snapshot models.ProfileDraft) error
	SendProfileApproved(ctx context.Context, to, displayName string) error
	SendProfileRejected(ctx context.Context, to, displayName string) error
}

// ImagePipeline downloads and normalizes uploads before they are stored.
type ImagePipeline interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
	Process(data []byte) ([]byte, error)
}
