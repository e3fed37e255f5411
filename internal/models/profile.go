package models

import (
	"time"
)

// Socials holds the per-platform handles a photographer links from their
// profile. Handles are stored without the leading "@".
type Socials struct {
	Instagram string `json:"instagram"`
	Twitter   string `json:"twitter"`
	Flickr    string `json:"flickr"`
	Px500     string `json:"500px"`
	Website   string `json:"website"`
}

// Profile is the per-user photography identity record. It is only visible to
// third parties once a moderator has set Verified.
type Profile struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex;not null"`
	Username        string    `json:"username" gorm:"not null"`
	DisplayName     string    `json:"display_name"`
	PhotographyType string    `json:"photography_type"`
	Equipment       string    `json:"equipment"`
	Bio             string    `json:"bio"`
	Socials         Socials   `json:"socials" gorm:"type:json;serializer:json"`
	Verified        bool      `json:"verified" gorm:"default:false"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// VisibleTo reports whether viewer may see this profile: the owner always,
// moderators always, everyone else only once it is verified.
func (p *Profile) VisibleTo(viewerID uint, moderator bool) bool {
	if viewerID == p.UserID || moderator {
		return true
	}
	return p.Verified
}

// ProfileDraft is the wizard's working copy. Fields are copied onto a Profile
// only at submission; abandoning the wizard persists nothing.
type ProfileDraft struct {
	PhotographyType string  `json:"photography_type"`
	Equipment       string  `json:"equipment"`
	Bio             string  `json:"bio"`
	Socials         Socials `json:"socials"`
}

type ProfileResponse struct {
	UserID          uint      `json:"user_id"`
	Username        string    `json:"username"`
	DisplayName     string    `json:"display_name"`
	PhotographyType string    `json:"photography_type,omitempty"`
	Equipment       string    `json:"equipment,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Socials         Socials   `json:"socials"`
	Verified        bool      `json:"verified"`
	CreatedAt       time.Time `json:"created_at"`
}

func NewProfileResponse(p *Profile) ProfileResponse {
	return ProfileResponse{
		UserID:          p.UserID,
		Username:        p.Username,
		DisplayName:     p.DisplayName,
		PhotographyType: p.PhotographyType,
		Equipment:       p.Equipment,
		Bio:             p.Bio,
		Socials:         p.Socials,
		Verified:        p.Verified,
		CreatedAt:       p.CreatedAt,
	}
}
