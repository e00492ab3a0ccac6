package handler

import (
	"encoding/base64"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	"github.com/echovault/echovault/internal/adapter/dto/recording"
	"github.com/echovault/echovault/internal/usecase/library"
	"github.com/echovault/echovault/internal/usecase/pipeline"
)

// Recording serves the save pipeline and the library views
type Recording struct {
	pipeline *pipeline.Service
	library  *library.Service
	logger   *zap.Logger
}

// NewRecording creates the recording handler
func NewRecording(pipelineSvc *pipeline.Service, librarySvc *library.Service, logger *zap.Logger) *Recording {
	return &Recording{
		pipeline: pipelineSvc,
		library:  librarySvc,
		logger:   logger,
	}
}

// Save handles POST /v1/recordings: the full upload, transcribe, analyze,
// persist pipeline for one finished recording
func (h *Recording) Save(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req recording.SaveRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	audio, err := base64.StdEncoding.DecodeString(req.Audio)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("audio must be base64 encoded"))
	}

	rec, err := h.pipeline.SaveAndProcess(c.Request().Context(), audio, req.Title, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, recording.FromEntity(rec))
}

// List handles GET /v1/recordings
func (h *Recording) List(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	recs, err := h.library.List(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recording.FromEntities(recs))
}

// Get handles GET /v1/recordings/:id
func (h *Recording) Get(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	rec, err := h.library.Get(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recording.FromEntity(rec))
}

// Rename handles PATCH /v1/recordings/:id
func (h *Recording) Rename(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req recording.RenameRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	if err := h.library.Rename(c.Request().Context(), userID, id, req.Title); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String(), "title": req.Title})
}

// Delete handles DELETE /v1/recordings/:id, removing the stored audio object
// and the row with its highlights
func (h *Recording) Delete(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	if err := h.library.Delete(c.Request().Context(), userID, id); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, map[string]string{"id": id.String()})
}

// Download handles GET /v1/recordings/:id/download
func (h *Recording) Download(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	url, err := h.library.DownloadURL(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recording.DownloadResponse{AudioURL: url})
}

// Share handles POST /v1/recordings/:id/share
func (h *Recording) Share(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	id, err := parseIDParam(c, "id")
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	token, expiresAt, err := h.library.Share(c.Request().Context(), userID, id)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recording.ShareResponse{Token: token, ExpiresAt: expiresAt})
}

// ResolveShare handles GET /v1/shared/:token, the public share lookup
func (h *Recording) ResolveShare(c echo.Context) error {
	token := c.Param("token")
	if token == "" {
		return HandleError(h.logger, c, errors.ErrInvalidArgument("token is required"))
	}

	rec, err := h.library.ResolveShare(c.Request().Context(), token)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, recording.FromEntity(rec))
}

// Search handles GET /v1/search?q=
func (h *Recording) Search(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	query := c.QueryParam("q")
	results, err := h.library.Search(c.Request().Context(), userID, query)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, results)
}

// Stats handles GET /v1/stats
func (h *Recording) Stats(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	stats, err := h.library.Stats(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, stats)
}
