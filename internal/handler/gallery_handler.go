package handler

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/lensfolio/lensfolio-backend/internal/models"
	"github.com/lensfolio/lensfolio-backend/internal/service"
	"github.com/lensfolio/lensfolio-backend/pkg/utils"
)

type GalleryHandler struct {
	galleryService *service.GalleryService
	validator      *utils.Validator
}

func NewGalleryHandler(galleryService *service.GalleryService, validator *utils.Validator) *GalleryHandler {
	return &GalleryHandler{
		galleryService: galleryService,
		validator:      validator,
	}
}

// Overview is the management panel shown when upload is invoked without an
// image: folders plus terms status.
func (h *GalleryHandler) Overview(c *fiber.Ctx) error {
	userID, _ := actingUser(c)

	overview, err := h.galleryService.Overview(userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(overview, ""))
}

func (h *GalleryHandler) AcceptTerms(c *fiber.Ctx) error {
	userID, _ := actingUser(c)

	if err := h.galleryService.AcceptTerms(c.Context(), userID); err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(nil, "You have successfully agreed to the terms. You can now upload photos."))
}

func (h *GalleryHandler) CreateFolder(c *fiber.Ctx) error {
	userID, _ := actingUser(c)

	var req models.CreateFolderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	name, err := h.galleryService.CreateFolder(c.Context(), userID, req.Name)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(fiber.Map{"name": name}, "Folder created successfully"))
}

// Upload accepts either a multipart file or a remote image URL, plus
// optional folder, title and description form fields.
func (h *GalleryHandler) Upload(c *fiber.Ctx) error {
	userID, _ := actingUser(c)

	req := service.UploadRequest{
		Folder:      c.FormValue("folder"),
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
	}

	if file, err := c.FormFile("file"); err == nil {
		src, err := file.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read uploaded file"))
		}
		defer src.Close()

		data, err := io.ReadAll(src)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Could not read uploaded file"))
		}

		req.Data = data
		req.ContentType = file.Header.Get("Content-Type")
		req.OriginalName = file.Filename
	} else {
		req.RemoteURL = c.FormValue("image_url")
		req.ContentType = c.FormValue("content_type")
		req.OriginalName = c.FormValue("original_name")
		if req.RemoteURL == "" {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("No image provided"))
		}
	}

	photo, err := h.galleryService.Upload(c.Context(), userID, req)
	if errors.Is(err, models.ErrTermsNotAccepted) {
		// Render the agree/cancel prompt instead of a bare failure.
		return c.Status(fiber.StatusPreconditionFailed).JSON(models.Response{
			Success: false,
			Error:   err.Error(),
			Data: fiber.Map{
				"terms":   termsOfUse,
				"actions": []string{"agree", "cancel"},
			},
		})
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(photo, "Photo uploaded successfully"))
}

func (h *GalleryHandler) ListFolders(c *fiber.Ctx) error {
	viewerID, isModerator := actingUser(c)

	targetID, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	folders, err := h.galleryService.ListFolders(viewerID, isModerator, targetID)
	if errors.Is(err, models.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("This portfolio is pending verification."))
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(folders, ""))
}

type browseRequest struct {
	Folder string `json:"folder" validate:"required"`
}

func (h *GalleryHandler) StartBrowse(c *fiber.Ctx) error {
	viewerID, isModerator := actingUser(c)

	targetID, err := parseUserID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req browseRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	view, err := h.galleryService.StartBrowse(c.Context(), viewerID, isModerator, targetID, req.Folder)
	if errors.Is(err, models.ErrPermissionDenied) {
		return c.Status(fiber.StatusForbidden).JSON(models.ErrorResponse("This portfolio is pending verification."))
	}
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, ""))
}

type browseActionRequest struct {
	Action string `json:"action" validate:"required"`
}

func (h *GalleryHandler) BrowseAction(c *fiber.Ctx) error {
	userID, _ := actingUser(c)
	sessionID := c.Params("sessionID")

	var req browseActionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	view, err := h.galleryService.BrowseAction(sessionID, userID, req.Action)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(models.SuccessResponse(view, ""))
}

const termsOfUse = `By uploading photos, you agree that:
1. You are the copyright owner of all photos you upload.
2. You grant us a non-exclusive license to display your photos.
3. All photos will be converted to PNG format for compatibility.
4. Photos may be resized to ensure proper display on all devices.
5. You retain all rights to your photos.`
