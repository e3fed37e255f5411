package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/internal/service"
	"github.com/lensfolio/lensfolio-backend/pkg/logging"
	"github.com/lensfolio/lensfolio-backend/pkg/utils"
)

// Minimal in-memory collaborators. The service-level tests exercise the
// workflows in depth; here they only need to produce the right sentinels so
// the HTTP mapping can be asserted.

type memUsers map[uint]*models.User

func (m memUsers) Create(u *models.User) error { m[u.ID] = u; return nil }
func (m memUsers) GetByID(id uint) (*models.User, error) {
	if u, ok := m[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}
func (m memUsers) GetByEmail(email string) (*models.User, error) {
	for _, u := range m {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, models.ErrNotFound
}
func (m memUsers) EmailExists(email string) (bool, error) {
	_, err := m.GetByEmail(email)
	return err == nil, nil
}

type memProfiles map[uint]*models.Profile

func (m memProfiles) Save(p *models.Profile) error { m[p.UserID] = p; return nil }
func (m memProfiles) GetByUserID(id uint) (*models.Profile, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, models.ErrNotFound
}
func (m memProfiles) Exists(id uint) (bool, error) { _, ok := m[id]; return ok, nil }
func (m memProfiles) Update(p *models.Profile) error {
	m[p.UserID] = p
	return nil
}

type memLibraries map[uint]*models.PhotoLibrary

func (m memLibraries) GetByUserID(id uint) (*models.PhotoLibrary, error) {
	if l, ok := m[id]; ok {
		return l, nil
	}
	return nil, models.ErrNotFound
}
func (m memLibraries) GetOrCreate(id uint) (*models.PhotoLibrary, error) {
	if l, ok := m[id]; ok {
		return l, nil
	}
	l := &models.PhotoLibrary{UserID: id, Folders: []string{}, Photos: map[string][]models.Photo{}}
	m[id] = l
	return l, nil
}
func (m memLibraries) Save(l *models.PhotoLibrary) error { m[l.UserID] = l; return nil }

type memModeration struct {
	requests []*models.ModerationRequest
}

func (m *memModeration) Create(r *models.ModerationRequest) error {
	r.ID = uint(len(m.requests) + 1)
	m.requests = append(m.requests, r)
	return nil
}
func (m *memModeration) GetPendingByUserID(id uint) (*models.ModerationRequest, error) {
	for i := len(m.requests) - 1; i >= 0; i-- {
		if m.requests[i].UserID == id && m.requests[i].Status == models.ModerationPending {
			return m.requests[i], nil
		}
	}
	return nil, models.ErrNotFound
}
func (m *memModeration) Update(*models.ModerationRequest) error { return nil }
func (m *memModeration) GetPending() ([]models.ModerationRequest, error) {
	var pending []models.ModerationRequest
	for _, r := range m.requests {
		if r.Status == models.ModerationPending {
			pending = append(pending, *r)
		}
	}
	return pending, nil
}

type nopNotifier struct{}

func (nopNotifier) SendModerationRequest(context.Context, uint, string, models.ProfileDraft) error {
	return nil
}
func (nopNotifier) SendProfileApproved(context.Context, string, string) error { return nil }
func (nopNotifier) SendProfileRejected(context.Context, string, string) error { return nil }

type nopStorage struct{}

func (nopStorage) Upload(_ context.Context, _ string, src io.Reader, _ int64) error {
	_, err := io.Copy(io.Discard, src)
	return err
}
func (nopStorage) Delete(context.Context, string) error { return nil }
func (nopStorage) PublicURL(key string) string          { return "https://cdn.test/" + key }

type nopPipeline struct{}

func (nopPipeline) Fetch(context.Context, string) ([]byte, error) { return nil, models.ErrNotFound }
func (nopPipeline) Process(data []byte) ([]byte, error)           { return data, nil }

type testEnv struct {
	app      *fiber.App
	profiles memProfiles
}

// newTestEnv wires the handlers behind a stand-in auth middleware that reads
// the acting user from request headers.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	users := memUsers{
		1: {ID: 1, FullName: "Ada Lovelace", DisplayName: "ada", Email: "ada@example.com"},
		2: {ID: 2, FullName: "Sam", DisplayName: "sam", Email: "sam@example.com"},
		3: {ID: 3, FullName: "Mod", DisplayName: "mod", Email: "mod@example.com", IsModerator: true},
	}
	profiles := memProfiles{}
	moderation := &memModeration{}
	libraries := memLibraries{}

	profileSvc := service.NewProfileService(profiles, moderation, users, nopNotifier{}, time.Minute, logging.Nop{})
	gallerySvc := service.NewGalleryService(libraries, profiles, nopStorage{}, nopPipeline{}, time.Minute, logging.Nop{})

	validator := utils.NewValidator()
	profileHandler := NewProfileHandler(profileSvc, validator)
	galleryHandler := NewGalleryHandler(gallerySvc, validator)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if raw := c.Get("X-Test-User"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			c.Locals("userID", uint(id))
			c.Locals("isModerator", c.Get("X-Test-Moderator") == "true")
		}
		return c.Next()
	})

	api := app.Group("/api")
	api.Get("/profile", profileHandler.GetMyProfile)
	api.Post("/profile/setup", profileHandler.StartSetup)
	api.Post("/profile/setup/:sessionID/actions", profileHandler.SetupAction)
	api.Get("/profiles/:userID", profileHandler.GetProfile)
	api.Get("/moderation/profiles", profileHandler.PendingRequests)
	api.Post("/moderation/profiles/:userID/:action", profileHandler.Moderate)
	api.Get("/gallery", galleryHandler.Overview)
	api.Post("/gallery/terms/accept", galleryHandler.AcceptTerms)
	api.Post("/gallery/folders", galleryHandler.CreateFolder)
	api.Post("/gallery/photos", galleryHandler.Upload)
	api.Get("/photos/:userID/folders", galleryHandler.ListFolders)
	api.Post("/photos/:userID/browse", galleryHandler.StartBrowse)
	api.Post("/photos/browse/:sessionID/actions", galleryHandler.BrowseAction)

	return &testEnv{app: app, profiles: profiles}
}

func (e *testEnv) do(t *testing.T, method, path string, userID uint, moderator bool, body any) (*http.Response, models.Response) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))
	if moderator {
		req.Header.Set("X-Test-Moderator", "true")
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var envelope models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	return resp, envelope
}

func (e *testEnv) givenProfile(userID uint, verified bool) {
	e.profiles[userID] = &models.Profile{UserID: userID, Username: "Ada Lovelace", Verified: verified}
}

func TestGetMyProfileWithoutProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, envelope := env.do(t, fiber.MethodGet, "/api/profile", 1, false, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, envelope.Error, "don't have a profile yet")
}

func TestGetForeignPendingProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.givenProfile(1, false)

	resp, envelope := env.do(t, fiber.MethodGet, "/api/profiles/1", 2, false, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "This profile is pending verification.", envelope.Error)

	// Moderators bypass the visibility rule.
	resp, _ = env.do(t, fiber.MethodGet, "/api/profiles/1", 3, true, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCreateFolderConflict(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.givenProfile(1, false)

	body := models.CreateFolderRequest{Name: "Trips"}
	resp, _ := env.do(t, fiber.MethodPost, "/api/gallery/folders", 1, false, body)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = env.do(t, fiber.MethodPost, "/api/gallery/folders", 1, false, body)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestUploadWithoutProfile(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := uploadFile(t, env, 1, "shot.png", "image/png")
	assert.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)
}

func TestUploadBeforeTermsRendersPrompt(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.givenProfile(1, false)

	resp, envelope := uploadFile(t, env, 1, "shot.png", "image/png")
	require.Equal(t, fiber.StatusPreconditionFailed, resp.StatusCode)

	data, ok := envelope.Data.(map[string]any)
	require.True(t, ok)
	assert.Contains(t, data["terms"], "copyright owner")
	assert.Equal(t, []any{"agree", "cancel"}, data["actions"])
}

func uploadFile(t *testing.T, env *testEnv, userID uint, filename, contentType string) (*http.Response, models.Response) {
	t.Helper()

	var buf bytes.Buffer
	boundary := "testboundary"
	fmt.Fprintf(&buf, "--%s\r\n", boundary)
	fmt.Fprintf(&buf, "Content-Disposition: form-data; name=\"file\"; filename=%q\r\n", filename)
	fmt.Fprintf(&buf, "Content-Type: %s\r\n\r\n", contentType)
	buf.WriteString("bytes")
	fmt.Fprintf(&buf, "\r\n--%s--\r\n", boundary)

	req := httptest.NewRequest(fiber.MethodPost, "/api/gallery/photos", &buf)
	req.Header.Set("Content-Type", "multipart/form-data; boundary="+boundary)
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(userID), 10))

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	var envelope models.Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	resp.Body.Close()
	return resp, envelope
}

func TestWizardActionOnDeadSession(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	body := service.WizardActionRequest{Action: "next"}
	resp, _ := env.do(t, fiber.MethodPost, "/api/profile/setup/no-such-session/actions", 1, false, body)
	assert.Equal(t, fiber.StatusGone, resp.StatusCode)
}

func TestWizardActionRejectsUnknownAction(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, envelope := env.do(t, fiber.MethodPost, "/api/profile/setup", 1, false, nil)
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var view models.WizardView
	require.NoError(t, json.Unmarshal(raw, &view))

	body := service.WizardActionRequest{Action: "teleport"}
	resp, _ := env.do(t, fiber.MethodPost, "/api/profile/setup/"+view.SessionID+"/actions", 1, false, body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestModerateEndpoint(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	env.givenProfile(1, false)

	// Non-moderators are refused.
	resp, _ := env.do(t, fiber.MethodPost, "/api/moderation/profiles/1/approve", 2, false, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Unknown actions never reach the workflow.
	resp, _ = env.do(t, fiber.MethodPost, "/api/moderation/profiles/1/ban", 3, true, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, envelope := env.do(t, fiber.MethodPost, "/api/moderation/profiles/1/approve", 3, true, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Profile has been approved.", envelope.Message)

	// The flip is visible to third parties now.
	resp, _ = env.do(t, fiber.MethodGet, "/api/profiles/1", 2, false, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPendingRequestsRequiresModeratorRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	resp, _ := env.do(t, fiber.MethodGet, "/api/moderation/profiles", 1, false, nil)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
