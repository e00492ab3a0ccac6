package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	folderdto "github.com/echovault/echovault/internal/adapter/dto/folder"
	recordingdto "github.com/echovault/echovault/internal/adapter/dto/recording"
	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/domain/repositories"
)

// Folder serves user-owned folder CRUD and the folder-recording join
type Folder struct {
	folders    repositories.FolderRepository
	recordings repositories.RecordingRepository
	logger     *zap.Logger
}

// NewFolder creates the folder handler
func NewFolder(folders repositories.FolderRepository, recordings repositories.RecordingRepository, logger *zap.Logger) *Folder {
	return &Folder{
		folders:    folders,
		recordings: recordings,
		logger:     logger,
	}
}

// Create handles POST /v1/folders
func (h *Folder) Create(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req folderdto.CreateRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	folder := entities.NewFolder(userID, req.Name)
	if err := h.folders.Create(c.Request().Context(), folder); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, folder)
}

// List handles GET /v1/folders
func (h *Folder) List(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	folders, err := h.folders.FindAllByUser(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, folders)
}

// Delete handles DELETE /v1/folders/:id
func (h *Folder) Delete(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.folders.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String()})
}

// AddRecording handles POST /v1/folders/:id/recordings
func (h *Folder) AddRecording(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	folderID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req folderdto.AddRecordingRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	// Both sides must belong to the caller before they can be linked
	folder, err := h.folders.FindByID(c.Request().Context(), userID, folderID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if folder == nil {
		return HandleError(h.logger, c, entities.ErrFolderNotFound)
	}
	rec, err := h.recordings.FindByID(c.Request().Context(), userID, req.RecordingID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if rec == nil {
		return HandleError(h.logger, c, entities.ErrRecordingNotFound)
	}

	if err := h.folders.AddRecording(c.Request().Context(), folderID, req.RecordingID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{
		"folder_id":    folderID.String(),
		"recording_id": req.RecordingID.String(),
	})
}

// RemoveRecording handles DELETE /v1/folders/:id/recordings/:recordingId
func (h *Folder) RemoveRecording(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	folderID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	recordingID, err := parseIDParam(c, "recordingId")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	folder, err := h.folders.FindByID(c.Request().Context(), userID, folderID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if folder == nil {
		return HandleError(h.logger, c, entities.ErrFolderNotFound)
	}

	if err := h.folders.RemoveRecording(c.Request().Context(), folderID, recordingID); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{
		"folder_id":    folderID.String(),
		"recording_id": recordingID.String(),
	})
}

// ListRecordings handles GET /v1/folders/:id/recordings
func (h *Folder) ListRecordings(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	folderID, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	folder, err := h.folders.FindByID(c.Request().Context(), userID, folderID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	if folder == nil {
		return HandleError(h.logger, c, entities.ErrFolderNotFound)
	}

	recs, err := h.folders.FindRecordings(c.Request().Context(), userID, folderID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recordingdto.FromEntities(recs))
}
