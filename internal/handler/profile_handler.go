package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/internal/service"
	"github.com/lensfolio/lensfolio-backend/pkg/utils"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	validator      *utils.Validator
}

func NewProfileHandler(profileService *service.ProfileService, validator *utils.Validator) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		validator:      validator,
	}
}

// GetMyProfile shows the acting user their own record regardless of
// verification state.
func (h *ProfileHandler) GetMyProfile(c *fiber.Ctx) error {
	userID, isModerator := actingUser(c)

	profile, err := h.profileService.GetProfile(userID, isModerator, userID)
	if errors.Is(err, models.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("You don't have a profile yet. Start the setup to create one."))
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(profile, "Profile retrieved"))
}

// GetProfile shows another user's profile subject to the visibility rule.
func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	viewerID, isModerator := actingUser(c)

	targetID, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	profile, err := h.profileService.GetProfile(viewerID, isModerator, targetID)
	if errors.Is(err, models.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("This profile is pending verification."))
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(profile, "Profile retrieved"))
}

func (h *ProfileHandler) StartSetup(c *fiber.Ctx) error {
	userID, _ := actingUser(c)

	view, err := h.profileService.StartWizard(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, "Profile setup started"))
}

func (h *ProfileHandler) SetupAction(c *fiber.Ctx) error {
	userID, _ := actingUser(c)
	sessionID := c.Params("sessionID")

	var req service.WizardActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	view, err := h.profileService.WizardAction(c.Context(), sessionID, userID, req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, ""))
}

// Moderate translates the route into a typed command and applies it.
func (h *ProfileHandler) Moderate(c *fiber.Ctx) error {
	actorID, isModerator := actingUser(c)

	subjectID, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	cmd := models.ModerationCommand{
		Action:  models.ModerationAction(c.Params("action")),
		Subject: subjectID,
	}

	if err := h.profileService.Moderate(c.Context(), cmd, actorID, isModerator); err != nil {
		return respondError(c, err)
	}

	message := "Profile has been approved."
	if cmd.Action == models.ActionReject {
		message = "Profile has been rejected."
	}
	return c.JSON(models.SuccessResponse(nil, message))
}

func (h *ProfileHandler) PendingRequests(c *fiber.Ctx) error {
	actorID, isModerator := actingUser(c)

	requests, err := h.profileService.PendingRequests(actorID, isModerator)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(requests, "Pending verification requests"))
}

func parseUserID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("userID"), 10, 32)
	if err != nil {
		return 0, models.ErrInvalidInput
	}
	return uint(id), nil
}
