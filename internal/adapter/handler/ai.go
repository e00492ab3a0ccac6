package handler

import (
	stdErrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	"github.com/echovault/echovault/internal/adapter/dto/ai"
	"github.com/echovault/echovault/internal/usecase/analysis"
	"github.com/echovault/echovault/internal/usecase/transcription"
	"github.com/echovault/echovault/pkg/gemini"
)

// AI serves the transcription and analysis endpoints. Their request and
// response bodies are a fixed external contract, so they bypass the
// standard response envelope.
type AI struct {
	transcriber *transcription.Service
	analyzer    *analysis.Service
	logger      *zap.Logger
}

// NewAI creates the AI endpoints handler
func NewAI(transcriber *transcription.Service, analyzer *analysis.Service, logger *zap.Logger) *AI {
	return &AI{
		transcriber: transcriber,
		analyzer:    analyzer,
		logger:      logger,
	}
}

// Transcribe handles POST /v1/transcribe
func (h *AI) Transcribe(c echo.Context) error {
	var req ai.TranscribeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ai.TranscribeErrorResponse{
			Error: "Invalid request body",
		})
	}
	if req.Audio == "" {
		return c.JSON(http.StatusBadRequest, ai.TranscribeErrorResponse{
			Error: "No audio data provided",
		})
	}

	result, err := h.transcriber.Transcribe(c.Request().Context(), req.Audio)
	if err != nil {
		return h.transcribeError(c, err)
	}

	return c.JSON(http.StatusOK, ai.TranscribeResponse{
		Text:     result.Text,
		Language: result.Language,
	})
}

// transcribeError maps failures onto the transcription error contract,
// surfacing the upstream status and raw body when the generation endpoint
// itself rejected the call
func (h *AI) transcribeError(c echo.Context, err error) error {
	if h.logger != nil {
		h.logger.Error("❌ Transcription request failed",
			zap.String("request_id", getRequestID(c)),
			zap.Error(err),
		)
	}

	var upstream *gemini.UpstreamError
	if stdErrors.As(err, &upstream) {
		return c.JSON(http.StatusInternalServerError, ai.TranscribeErrorResponse{
			Error:        "Transcription failed",
			Details:      upstream.Body,
			GeminiStatus: upstream.StatusCode,
		})
	}

	var appErr errors.AppError
	if stdErrors.As(err, &appErr) {
		body := ai.TranscribeErrorResponse{Error: appErr.Message}
		if appErr.Raw != nil {
			body.Details = appErr.Raw.Error()
		}
		if appErr.Code == errors.ErrorCode_PAYLOAD_TOO_LARGE {
			body.Details = "Audio file is too large to transcribe. Try a shorter recording."
		}
		return c.JSON(appErr.HTTPCode, body)
	}

	return c.JSON(http.StatusInternalServerError, ai.TranscribeErrorResponse{
		Error:   "Transcription failed",
		Details: err.Error(),
	})
}

// Analyze handles POST /v1/analyze. A malformed model response still
// returns 200 with the fixed fallback object; only transport-level failures
// return 500.
func (h *AI) Analyze(c echo.Context) error {
	var req ai.AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ai.NewAnalyzeErrorResponse("Invalid request body"))
	}
	if req.Text == "" {
		return c.JSON(http.StatusBadRequest, ai.NewAnalyzeErrorResponse("No text provided"))
	}

	result, err := h.analyzer.Analyze(c.Request().Context(), req.Text)
	if err != nil {
		if h.logger != nil {
			h.logger.Error("❌ Analysis request failed",
				zap.String("request_id", getRequestID(c)),
				zap.Error(err),
			)
		}

		var appErr errors.AppError
		if stdErrors.As(err, &appErr) && appErr.HTTPCode != http.StatusInternalServerError {
			return c.JSON(appErr.HTTPCode, ai.NewAnalyzeErrorResponse(appErr.Message))
		}
		return c.JSON(http.StatusInternalServerError, ai.NewAnalyzeErrorResponse("Analysis failed"))
	}

	return c.JSON(http.StatusOK, result)
}

// Preflight handles OPTIONS for both endpoints with permissive CORS
func (h *AI) Preflight(c echo.Context) error {
	header := c.Response().Header()
	header.Set(echo.HeaderAccessControlAllowOrigin, "*")
	header.Set(echo.HeaderAccessControlAllowMethods, "POST, OPTIONS")
	header.Set(echo.HeaderAccessControlAllowHeaders, "Authorization, Content-Type, X-Request-ID")
	return c.NoContent(http.StatusOK)
}
