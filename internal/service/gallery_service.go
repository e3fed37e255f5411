package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/internal/session"
	"github.com/lensfolio/lensfolio-backend/pkg/logging"
	"github.com/lensfolio/lensfolio-backend/pkg/storage"
	"github.com/lensfolio/lensfolio-backend/pkg/utils"
)

// DefaultFolder is created for users who upload before making any folder.
const DefaultFolder = "My Photos"

// UploadRequest carries one photo submission through the gate sequence. Data
// holds the raw upload when the image came in directly; RemoteURL points the
// pipeline at an attachment to download instead.
type UploadRequest struct {
	ContentType  string
	OriginalName string
	Data         []byte
	RemoteURL    string
	Folder       string
	Title        string
	Description  string
}

// BrowserState is the cursor of one photo-browsing session. The photo slice
// is a snapshot taken when the session opened; the index persists across
// navigation within the session.
type BrowserState struct {
	TargetID uint
	Folder   string
	Photos   []models.Photo
	Index    int
}

type GalleryService struct {
	libraries LibraryRepository
	profiles  ProfileRepository
	store     storage.ObjectStorage
	pipeline  ImagePipeline
	browsers  *session.Store[*BrowserState]
	logger    logging.Logger
}

func NewGalleryService(
	libraries LibraryRepository,
	profiles ProfileRepository,
	store storage.ObjectStorage,
	pipeline ImagePipeline,
	browserTimeout time.Duration,
	logger logging.Logger,
) *GalleryService {
	return &GalleryService{
		libraries: libraries,
		profiles:  profiles,
		store:     store,
		pipeline:  pipeline,
		browsers:  session.NewStore[*BrowserState](browserTimeout),
		logger:    logger.With("component", "gallery"),
	}
}

// requireProfile is the first gate of every upload-side operation.
func (s *GalleryService) requireProfile(userID uint) error {
	exists, err := s.profiles.Exists(userID)
	if err != nil {
		return err
	}
	if !exists {
		return models.ErrProfileRequired
	}
	return nil
}

// Overview renders the management panel: the user's folders and their terms
// status.
func (s *GalleryService) Overview(userID uint) (*models.GalleryOverview, error) {
	if err := s.requireProfile(userID); err != nil {
		return nil, err
	}

	library, err := s.libraries.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	overview := &models.GalleryOverview{
		Folders:       folderResponses(library),
		AgreedToTerms: library.AgreedToTerms,
	}
	return overview, nil
}

// AcceptTerms flips the one-way terms flag and stamps the acceptance time.
// Accepting again is a no-op; there is no way back.
func (s *GalleryService) AcceptTerms(ctx context.Context, userID uint) error {
	if err := s.requireProfile(userID); err != nil {
		return err
	}

	library, err := s.libraries.GetOrCreate(userID)
	if err != nil {
		return err
	}
	if library.AgreedToTerms {
		return nil
	}

	now := time.Now()
	library.AgreedToTerms = true
	library.AgreedAt = &now

	if err := s.libraries.Save(library); err != nil {
		return fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}

	s.logger.Info(ctx, "terms accepted", "user_id", userID)
	return nil
}

// CreateFolder sanitizes, validates and appends a folder, persisting the
// list and the folder's photo namespace in one write.
func (s *GalleryService) CreateFolder(ctx context.Context, userID uint, rawName string) (string, error) {
	if err := s.requireProfile(userID); err != nil {
		return "", err
	}

	library, err := s.libraries.GetOrCreate(userID)
	if err != nil {
		return "", err
	}

	name, err := addFolder(library, rawName)
	if err != nil {
		return "", err
	}

	if err := s.libraries.Save(library); err != nil {
		return "", fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}

	s.logger.Info(ctx, "folder created", "user_id", userID, "folder", name)
	return name, nil
}

func addFolder(library *models.PhotoLibrary, rawName string) (string, error) {
	name := utils.SanitizeFolderName(rawName)
	if name == "" {
		return "", fmt.Errorf("%w: invalid folder name", models.ErrInvalidInput)
	}
	if library.HasFolder(name) {
		return "", models.ErrDuplicateName
	}

	library.Folders = append(library.Folders, name)
	if library.Photos == nil {
		library.Photos = map[string][]models.Photo{}
	}
	library.Photos[name] = []models.Photo{}
	return name, nil
}

// Upload runs the gate sequence and, once through, pushes the image down the
// pipeline, stores the processed bytes and appends the photo record. Each
// gate short-circuits; nothing partial is written on failure.
func (s *GalleryService) Upload(ctx context.Context, userID uint, req UploadRequest) (*models.Photo, error) {
	if err := s.requireProfile(userID); err != nil {
		return nil, err
	}

	if !utils.IsImageContentType(req.ContentType) {
		return nil, fmt.Errorf("%w: please upload an image file", models.ErrInvalidInput)
	}

	library, err := s.libraries.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}
	if !library.AgreedToTerms {
		return nil, models.ErrTermsNotAccepted
	}

	folder, err := s.resolveFolder(library, req.Folder)
	if err != nil {
		return nil, err
	}

	data := req.Data
	if data == nil {
		data, err = s.pipeline.Fetch(ctx, req.RemoteURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrUpstreamFailure, err)
		}
	}

	processed, err := s.pipeline.Process(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidInput, err)
	}

	filename := strings.ReplaceAll(uuid.NewString(), "-", "") + ".png"
	key := fmt.Sprintf("photos/%d/%s/%s", userID, folder, filename)

	if err := s.store.Upload(ctx, key, bytes.NewReader(processed), int64(len(processed))); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpstreamFailure, err)
	}

	title := req.Title
	if title == "" {
		title = req.OriginalName
	}

	photo := models.Photo{
		Filename:     filename,
		CdnURL:       s.store.PublicURL(key),
		OriginalName: req.OriginalName,
		UploadedAt:   time.Now(),
		Title:        title,
		Description:  req.Description,
		Size:         int64(len(processed)),
	}

	if library.Photos == nil {
		library.Photos = map[string][]models.Photo{}
	}
	library.Photos[folder] = append(library.Photos[folder], photo)

	if err := s.libraries.Save(library); err != nil {
		// Keep storage consistent with the document we failed to write.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error(ctx, "orphaned object after failed save", "key", key, "error", delErr)
		}
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}

	s.logger.Info(ctx, "photo uploaded", "user_id", userID, "folder", folder, "size", photo.Size)
	return &photo, nil
}

// resolveFolder picks the upload target: the named folder if it exists, or
// the default folder (created on first use) when none was named. The stored
// spelling is returned, never the caller's.
func (s *GalleryService) resolveFolder(library *models.PhotoLibrary, requested string) (string, error) {
	if requested != "" {
		name, ok := library.Folder(requested)
		if !ok {
			return "", fmt.Errorf("%w: folder %q", models.ErrNotFound, requested)
		}
		return name, nil
	}

	if len(library.Folders) == 0 {
		if _, err := addFolder(library, DefaultFolder); err != nil {
			return "", err
		}
	}
	return library.Folders[0], nil
}

// visibleLibrary loads the target's library after applying the profile
// visibility rule: unverified content is never shown to third parties.
func (s *GalleryService) visibleLibrary(viewerID uint, isModerator bool, targetID uint) (*models.PhotoLibrary, error) {
	profile, err := s.profiles.GetByUserID(targetID)
	if err != nil {
		return nil, err
	}
	if !profile.VisibleTo(viewerID, isModerator) {
		return nil, models.ErrPermissionDenied
	}

	return s.libraries.GetOrCreate(targetID)
}

// ListFolders returns the target's folders with photo counts, subject to the
// visibility rule.
func (s *GalleryService) ListFolders(viewerID uint, isModerator bool, targetID uint) ([]models.FolderResponse, error) {
	library, err := s.visibleLibrary(viewerID, isModerator, targetID)
	if err != nil {
		return nil, err
	}
	return folderResponses(library), nil
}

func folderResponses(library *models.PhotoLibrary) []models.FolderResponse {
	folders := make([]models.FolderResponse, 0, len(library.Folders))
	for _, name := range library.Folders {
		folders = append(folders, models.FolderResponse{
			Name:       name,
			PhotoCount: len(library.Photos[name]),
		})
	}
	return folders
}

// StartBrowse opens a browser session over a folder's photo sequence for the
// viewer. The cursor starts at the first photo.
func (s *GalleryService) StartBrowse(ctx context.Context, viewerID uint, isModerator bool, targetID uint, folder string) (*models.BrowserView, error) {
	library, err := s.visibleLibrary(viewerID, isModerator, targetID)
	if err != nil {
		return nil, err
	}

	name, ok := library.Folder(folder)
	if !ok {
		return nil, fmt.Errorf("%w: folder %q", models.ErrNotFound, folder)
	}
	folder = name
	photos := library.Photos[folder]
	if len(photos) == 0 {
		return nil, fmt.Errorf("%w: folder %q is empty", models.ErrNotFound, folder)
	}

	state := &BrowserState{
		TargetID: targetID,
		Folder:   folder,
		Photos:   photos,
	}
	entry := s.browsers.Create(viewerID, state)
	s.logger.Info(ctx, "browse started", "viewer_id", viewerID, "target_id", targetID, "folder", folder)

	view := renderBrowser(entry.ID, state)
	return &view, nil
}

// BrowseAction moves the cursor. previous at the first photo stays there,
// next at the last photo stays there; the index survives across calls within
// the session.
func (s *GalleryService) BrowseAction(sessionID string, actorID uint, action string) (*models.BrowserView, error) {
	entry, err := s.browsers.Get(sessionID, actorID)
	if err != nil {
		return nil, err
	}
	state := entry.State

	switch action {
	case "next":
		if state.Index < len(state.Photos)-1 {
			state.Index++
		}
	case "previous":
		if state.Index > 0 {
			state.Index--
		}
	default:
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrInvalidInput, action)
	}

	view := renderBrowser(entry.ID, state)
	return &view, nil
}

func renderBrowser(sessionID string, state *BrowserState) models.BrowserView {
	photo := state.Photos[state.Index]
	return models.BrowserView{
		SessionID: sessionID,
		Folder:    state.Folder,
		Photo: models.PhotoResponse{
			Position:     state.Index + 1,
			Total:        len(state.Photos),
			Title:        photo.Title,
			Description:  photo.Description,
			CdnURL:       photo.CdnURL,
			OriginalName: photo.OriginalName,
			UploadedAt:   photo.UploadedAt,
			Size:         models.FormatSize(photo.Size),
		},
		PrevEnabled: state.Index > 0,
		NextEnabled: state.Index < len(state.Photos)-1,
	}
}
