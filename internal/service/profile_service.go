package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/internal/session"
	"github.com/lensfolio/lensfolio-backend/pkg/logging"
)

// The setup wizard walks four ordered pages. Navigation clamps at both ends
// and never discards entered data.
const (
	PageIntro = iota
	PageDetails
	PageSocials
	PageBioSubmit

	wizardPages = 4
)

var wizardTitles = [wizardPages]string{
	"Welcome to the Photography Profile setup!",
	"Tell us about your photography!",
	"Connect your social media accounts!",
	"Add a bio and confirm your profile!",
}

// WizardState is the working copy of one profile-setup session. Nothing is
// persisted until submit.
type WizardState struct {
	Page  int
	Draft models.ProfileDraft
}

type WizardActionRequest struct {
	Action string `json:"action" validate:"required"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

type ProfileService struct {
	profiles   ProfileRepository
	moderation ModerationRepository
	users      UserRepository
	notifier   Notifier
	wizards    *session.Store[*WizardState]
	logger     logging.Logger
}

func NewProfileService(
	profiles ProfileRepository,
	moderation ModerationRepository,
	users UserRepository,
	notifier Notifier,
	wizardTimeout time.Duration,
	logger logging.Logger,
) *ProfileService {
	return &ProfileService{
		profiles:   profiles,
		moderation: moderation,
		users:      users,
		notifier:   notifier,
		wizards:    session.NewStore[*WizardState](wizardTimeout),
		logger:     logger.With("component", "profile"),
	}
}

// StartWizard opens a setup session for the acting user. An existing profile
// seeds the working copy so edits resubmit through moderation.
func (s *ProfileService) StartWizard(ctx context.Context, userID uint) (*models.WizardView, error) {
	state := &WizardState{}

	if existing, err := s.profiles.GetByUserID(userID); err == nil {
		state.Draft = models.ProfileDraft{
			PhotographyType: existing.PhotographyType,
			Equipment:       existing.Equipment,
			Bio:             existing.Bio,
			Socials:         existing.Socials,
		}
	} else if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	entry := s.wizards.Create(userID, state)
	s.logger.Info(ctx, "wizard started", "user_id", userID, "session_id", entry.ID)

	view := s.renderWizard(entry.ID, state)
	return &view, nil
}

// WizardAction dispatches one action tag against a live wizard session. Only
// the session owner may act; everyone else fails with ErrPermissionDenied and
// the working copy is untouched.
func (s *ProfileService) WizardAction(ctx context.Context, sessionID string, actorID uint, req WizardActionRequest) (*models.WizardView, error) {
	entry, err := s.wizards.Get(sessionID, actorID)
	if err != nil {
		return nil, err
	}
	state := entry.State

	switch req.Action {
	case "next":
		if state.Page < wizardPages-1 {
			state.Page++
		}
	case "previous":
		if state.Page > 0 {
			state.Page--
		}
	case "set_field":
		if err := setDraftField(&state.Draft, req.Field, req.Value); err != nil {
			return nil, err
		}
	case "submit":
		return s.submit(ctx, entry.ID, actorID, state)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrInvalidInput, req.Action)
	}

	view := s.renderWizard(entry.ID, state)
	return &view, nil
}

// setDraftField mutates exactly one field of the working copy.
func setDraftField(draft *models.ProfileDraft, field, value string) error {
	switch field {
	case "photography_type":
		draft.PhotographyType = value
	case "equipment":
		draft.Equipment = value
	case "bio":
		draft.Bio = value
	case "socials.instagram":
		draft.Socials.Instagram = value
	case "socials.twitter":
		draft.Socials.Twitter = value
	case "socials.flickr":
		draft.Socials.Flickr = value
	case "socials.500px":
		draft.Socials.Px500 = value
	case "socials.website":
		draft.Socials.Website = value
	default:
		return fmt.Errorf("%w: unknown field %q", models.ErrInvalidInput, field)
	}
	return nil
}

// submit persists the profile unverified and dispatches the moderation
// request. The record counts as submitted once persistence succeeds; a
// dispatch failure is reported but never rolls the write back.
func (s *ProfileService) submit(ctx context.Context, sessionID string, userID uint, state *WizardState) (*models.WizardView, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		UserID:          userID,
		Username:        user.FullName,
		DisplayName:     user.DisplayName,
		PhotographyType: state.Draft.PhotographyType,
		Equipment:       state.Draft.Equipment,
		Bio:             state.Draft.Bio,
		Socials:         state.Draft.Socials,
		Verified:        false,
		UpdatedAt:       time.Now(),
	}

	if err := s.profiles.Save(profile); err != nil {
		// Session stays alive so the user can retry.
		return nil, fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
	}

	request := &models.ModerationRequest{
		UserID:   userID,
		Snapshot: state.Draft,
		Status:   models.ModerationPending,
	}
	if err := s.moderation.Create(request); err != nil {
		s.logger.Error(ctx, "failed to record moderation request", "user_id", userID, "error", err)
	}

	view := s.renderWizard(sessionID, state)
	view.Submitted = true
	view.Notice = "Your profile has been submitted for verification. You'll be notified once it is reviewed."

	if err := s.notifier.SendModerationRequest(ctx, userID, user.FullName, state.Draft); err != nil {
		s.logger.Error(ctx, "moderation dispatch failed", "user_id", userID, "error", err)
		view.Notice = "Your profile was submitted, but the moderation alert could not be delivered. A moderator will still review it."
	}

	s.wizards.Delete(sessionID)
	s.logger.Info(ctx, "profile submitted", "user_id", userID)
	return &view, nil
}

func (s *ProfileService) renderWizard(sessionID string, state *WizardState) models.WizardView {
	return models.WizardView{
		SessionID:  sessionID,
		Page:       state.Page + 1,
		TotalPages: wizardPages,
		Title:      wizardTitles[state.Page],
		Draft:      state.Draft,
		CanPrev:    state.Page > 0,
		CanNext:    state.Page < wizardPages-1,
		CanSubmit:  state.Page == wizardPages-1,
	}
}

// GetProfile applies the visibility rule: owners always see their own record,
// moderators see everything, third parties only verified profiles.
func (s *ProfileService) GetProfile(viewerID uint, isModerator bool, targetID uint) (*models.ProfileResponse, error) {
	profile, err := s.profiles.GetByUserID(targetID)
	if err != nil {
		return nil, err
	}

	if !profile.VisibleTo(viewerID, isModerator) {
		return nil, models.ErrPermissionDenied
	}

	resp := models.NewProfileResponse(profile)
	return &resp, nil
}

// Moderate executes a validated approve/reject command. Only moderators may
// act, and never on their own profile. Approve is idempotent: the owner is
// notified only when verified actually flips.
func (s *ProfileService) Moderate(ctx context.Context, cmd models.ModerationCommand, actorID uint, isModerator bool) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !isModerator || actorID == cmd.Subject {
		return models.ErrPermissionDenied
	}

	profile, err := s.profiles.GetByUserID(cmd.Subject)
	if err != nil {
		return err
	}

	switch cmd.Action {
	case models.ActionApprove:
		if !profile.Verified {
			profile.Verified = true
			profile.UpdatedAt = time.Now()
			if err := s.profiles.Update(profile); err != nil {
				return fmt.Errorf("%w: %v", models.ErrPersistenceFailure, err)
			}
			s.notifyOwner(ctx, cmd.Subject, true)
		}
	case models.ActionReject:
		s.notifyOwner(ctx, cmd.Subject, false)
	}

	s.resolveRequest(ctx, cmd, actorID)
	s.logger.Info(ctx, "moderation action applied", "action", cmd.Action, "subject", cmd.Subject, "moderator", actorID)
	return nil
}

// resolveRequest marks the pending request so its approve/reject controls are
// no longer offered. A missing request (already resolved, or submission
// predates request tracking) is not an error.
func (s *ProfileService) resolveRequest(ctx context.Context, cmd models.ModerationCommand, actorID uint) {
	request, err := s.moderation.GetPendingByUserID(cmd.Subject)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Error(ctx, "failed to load moderation request", "subject", cmd.Subject, "error", err)
		}
		return
	}

	now := time.Now()
	if cmd.Action == models.ActionApprove {
		request.Status = models.ModerationApproved
	} else {
		request.Status = models.ModerationRejected
	}
	request.ResolvedBy = actorID
	request.ResolvedAt = &now

	if err := s.moderation.Update(request); err != nil {
		s.logger.Error(ctx, "failed to resolve moderation request", "subject", cmd.Subject, "error", err)
	}
}

// notifyOwner emails the verification result. Delivery is best effort; a failed
// notification never undoes the state transition.
func (s *ProfileService) notifyOwner(ctx context.Context, userID uint, approved bool) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		s.logger.Error(ctx, "failed to load owner for notification", "user_id", userID, "error", err)
		return
	}

	if approved {
		err = s.notifier.SendProfileApproved(ctx, user.Email, user.DisplayName)
	} else {
		err = s.notifier.SendProfileRejected(ctx, user.Email, user.DisplayName)
	}
	if err != nil {
		s.logger.Error(ctx, "owner notification failed", "user_id", userID, "error", err)
	}
}

// PendingRequests lists open verification requests for the moderation panel.
func (s *ProfileService) PendingRequests(actorID uint, isModerator bool) ([]models.ModerationRequest, error) {
	if !isModerator {
		return nil, models.ErrPermissionDenied
	}
	return s.moderation.GetPending()
}
