package service

import (
	"context"
	"fmt"
	"io"

	"github.com/lensfolio/lensfolio-backend/internal/models"
)

// In-memory fakes for the repository and collaborator interfaces. They copy
// records on read/write the way gorm does, so a failed save never leaks
// mutations back into the store.

type fakeUserRepo struct {
	users map[uint]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[uint]*models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(user *models.User) error {
	user.ID = uint(len(r.users) + 1)
	c := *user
	r.users[user.ID] = &c
	return nil
}

func (r *fakeUserRepo) GetByID(id uint) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeUserRepo) EmailExists(email string) (bool, error) {
	_, err := r.GetByEmail(email)
	return err == nil, nil
}

type fakeProfileRepo struct {
	profiles  map[uint]*models.Profile
	saveErr   error
	updateErr error
}

func newFakeProfileRepo(profiles ...*models.Profile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: map[uint]*models.Profile{}}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeProfileRepo) Save(profile *models.Profile) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	c := *profile
	r.profiles[profile.UserID] = &c
	return nil
}

func (r *fakeProfileRepo) GetByUserID(userID uint) (*models.Profile, error) {
	p, ok := r.profiles[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (r *fakeProfileRepo) Exists(userID uint) (bool, error) {
	_, ok := r.profiles[userID]
	return ok, nil
}

func (r *fakeProfileRepo) Update(profile *models.Profile) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	c := *profile
	r.profiles[profile.UserID] = &c
	return nil
}

type fakeModerationRepo struct {
	requests  []*models.ModerationRequest
	createErr error
}

func (r *fakeModerationRepo) Create(request *models.ModerationRequest) error {
	if r.createErr != nil {
		return r.createErr
	}
	request.ID = uint(len(r.requests) + 1)
	c := *request
	r.requests = append(r.requests, &c)
	return nil
}

func (r *fakeModerationRepo) GetPendingByUserID(userID uint) (*models.ModerationRequest, error) {
	for i := len(r.requests) - 1; i >= 0; i-- {
		if r.requests[i].UserID == userID && r.requests[i].Status == models.ModerationPending {
			c := *r.requests[i]
			return &c, nil
		}
	}
	return nil, models.ErrNotFound
}

func (r *fakeModerationRepo) Update(request *models.ModerationRequest) error {
	for i, req := range r.requests {
		if req.ID == request.ID {
			c := *request
			r.requests[i] = &c
			return nil
		}
	}
	return models.ErrNotFound
}

func (r *fakeModerationRepo) GetPending() ([]models.ModerationRequest, error) {
	var pending []models.ModerationRequest
	for _, req := range r.requests {
		if req.Status == models.ModerationPending {
			pending = append(pending, *req)
		}
	}
	return pending, nil
}

type fakeNotifier struct {
	moderationRequests []uint
	approvedTo         []string
	rejectedTo         []string
	moderationErr      error
}

func (n *fakeNotifier) SendModerationRequest(_ context.Context, subject uint, _ string, _ models.ProfileDraft) error {
	if n.moderationErr != nil {
		return n.moderationErr
	}
	n.moderationRequests = append(n.moderationRequests, subject)
	return nil
}

func (n *fakeNotifier) SendProfileApproved(_ context.Context, to, _ string) error {
	n.approvedTo = append(n.approvedTo, to)
	return nil
}

func (n *fakeNotifier) SendProfileRejected(_ context.Context, to, _ string) error {
	n.rejectedTo = append(n.rejectedTo, to)
	return nil
}

type fakeLibraryRepo struct {
	libs    map[uint]*models.PhotoLibrary
	saveErr error
}

func newFakeLibraryRepo() *fakeLibraryRepo {
	return &fakeLibraryRepo{libs: map[uint]*models.PhotoLibrary{}}
}

func cloneLibrary(l *models.PhotoLibrary) *models.PhotoLibrary {
	c := *l
	c.Folders = append([]string(nil), l.Folders...)
	c.Photos = make(map[string][]models.Photo, len(l.Photos))
	for name, photos := range l.Photos {
		c.Photos[name] = append([]models.Photo(nil), photos...)
	}
	return &c
}

func (r *fakeLibraryRepo) GetByUserID(userID uint) (*models.PhotoLibrary, error) {
	l, ok := r.libs[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	return cloneLibrary(l), nil
}

func (r *fakeLibraryRepo) GetOrCreate(userID uint) (*models.PhotoLibrary, error) {
	if l, ok := r.libs[userID]; ok {
		return cloneLibrary(l), nil
	}
	l := &models.PhotoLibrary{
		ID:      uint(len(r.libs) + 1),
		UserID:  userID,
		Folders: []string{},
		Photos:  map[string][]models.Photo{},
	}
	r.libs[userID] = l
	return cloneLibrary(l), nil
}

func (r *fakeLibraryRepo) Save(library *models.PhotoLibrary) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.libs[library.UserID] = cloneLibrary(library)
	return nil
}

type fakeStorage struct {
	objects   map[string][]byte
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(_ context.Context, key string, src io.Reader, _ int64) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) PublicURL(key string) string {
	return "https://cdn.test/" + key
}

type fakePipeline struct {
	remote     map[string][]byte
	fetchErr   error
	processErr error
}

func (p *fakePipeline) Fetch(_ context.Context, url string) ([]byte, error) {
	if p.fetchErr != nil {
		return nil, p.fetchErr
	}
	data, ok := p.remote[url]
	if !ok {
		return nil, fmt.Errorf("no such remote image: %s", url)
	}
	return data, nil
}

func (p *fakePipeline) Process(data []byte) ([]byte, error) {
	if p.processErr != nil {
		return nil, p.processErr
	}
	// Passthrough keeps sizes checkable in assertions.
	return data, nil
}
