package handler

import (
	"io"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	profiledto "github.com/echovault/echovault/internal/adapter/dto/profile"
	"github.com/echovault/echovault/internal/domain/repositories"
	"github.com/echovault/echovault/internal/infrastructure/storage"
)

// maxAvatarBytes caps avatar uploads at 5 MB
const maxAvatarBytes = 5 << 20

// Profile serves get-or-create profile access and updates
type Profile struct {
	profiles repositories.ProfileRepository
	storage  *storage.MinIOClient
	logger   *zap.Logger
}

// NewProfile creates the profile handler
func NewProfile(profiles repositories.ProfileRepository, storageClient *storage.MinIOClient, logger *zap.Logger) *Profile {
	return &Profile{
		profiles: profiles,
		storage:  storageClient,
		logger:   logger,
	}
}

// Get handles GET /v1/profile, creating an empty row on first access
func (h *Profile) Get(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	profile, err := h.profiles.GetOrCreate(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}

// Update handles PATCH /v1/profile
func (h *Profile) Update(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req profiledto.UpdateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	profile, err := h.profiles.GetOrCreate(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	profile.FullName = &req.FullName
	if err := h.profiles.Update(c.Request().Context(), profile); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}

// UploadAvatar handles POST /v1/profile/avatar with a multipart "avatar" file
func (h *Profile) UploadAvatar(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("avatar file is required"))
	}
	if fileHeader.Size > maxAvatarBytes {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("avatar file too large"))
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInternal(err))
	}

	ext := filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")
	avatarURL, err := h.storage.UploadAvatar(c.Request().Context(), userID, ext, data, contentType)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrStorageFailed("upload avatar", err))
	}

	profile, err := h.profiles.GetOrCreate(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	profile.AvatarURL = &avatarURL
	if err := h.profiles.Update(c.Request().Context(), profile); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, profile)
}
