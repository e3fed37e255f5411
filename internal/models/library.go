package models

import (
	"fmt"
	"strings"
	"time"
)

// Photo is one element of a folder's sequence. Records are append-only; Size
// is the byte count of the processed image, not the original upload.
type Photo struct {
	Filename     string    `json:"filename"`
	CdnURL       string    `json:"cdn_url"`
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Size         int64     `json:"size"`
}

// PhotoLibrary is the per-user photo metadata document: the terms flag, the
// ordered folder list and the photos grouped by folder. Folder names are
// unique case-insensitively.
type PhotoLibrary struct {
	ID            uint               `json:"id" gorm:"primaryKey"`
	UserID        uint               `json:"user_id" gorm:"uniqueIndex;not null"`
	AgreedToTerms bool               `json:"agreed_to_terms" gorm:"default:false"`
	AgreedAt      *time.Time         `json:"agreed_at"`
	Folders       []string           `json:"folders" gorm:"type:json;serializer:json"`
	Photos        map[string][]Photo `json:"photos" gorm:"type:json;serializer:json"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// HasFolder reports whether name matches an existing folder, ignoring case.
func (l *PhotoLibrary) HasFolder(name string) bool {
	_, ok := l.Folder(name)
	return ok
}

// Folder resolves name to the folder's stored spelling, ignoring case. The
// stored spelling is the only valid Photos map key.
func (l *PhotoLibrary) Folder(name string) (string, bool) {
	for _, f := range l.Folders {
		if strings.EqualFold(f, name) {
			return f, true
		}
	}
	return "", false
}

type CreateFolderRequest struct {
	Name string `json:"name" validate:"required"`
}

type FolderResponse struct {
	Name       string `json:"name"`
	PhotoCount int    `json:"photo_count"`
}

type PhotoResponse struct {
	Position     int       `json:"position"`
	Total        int       `json:"total"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	CdnURL       string    `json:"cdn_url"`
	OriginalName string    `json:"original_name"`
	UploadedAt   time.Time `json:"uploaded_at"`
	Size         string    `json:"size"`
}

// FormatSize renders a byte count the way the browser shows it: KB below
// 1024 KB, MB above.
func FormatSize(size int64) string {
	kb := float64(size) / 1024
	if kb < 1024 {
		return fmt.Sprintf("%.1f KB", kb)
	}
	return fmt.Sprintf("%.1f MB", kb/1024)
}
