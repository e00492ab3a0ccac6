package transcription

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	"github.com/echovault/echovault/pkg/gemini"
)

// transcriptionPrompt instructs the model to return the raw transcript only
const transcriptionPrompt = "Transcribe the following audio recording verbatim. " +
	"Return only the transcribed text with no commentary, labels, or formatting."

const audioMimeType = "audio/webm"

// Result is the transcription output returned to callers
type Result struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Service transcribes base64 audio through the generative AI endpoint
type Service struct {
	client   *gemini.Client
	maxChars int
	logger   *zap.Logger
}

// NewService constructs a transcription service
func NewService(client *gemini.Client, maxChars int, logger *zap.Logger) *Service {
	return &Service{
		client:   client,
		maxChars: maxChars,
		logger:   logger,
	}
}

// Transcribe sends base64 audio to the model and returns the trimmed text.
// Over-length payloads are rejected locally before any upstream call.
func (s *Service) Transcribe(ctx context.Context, base64Audio string) (*Result, error) {
	if strings.TrimSpace(base64Audio) == "" {
		return nil, errors.ErrInvalidArgument("audio is required")
	}
	if len(base64Audio) > s.maxChars {
		if s.logger != nil {
			s.logger.Warn("⚠️ Audio payload rejected before upstream call",
				zap.Int("encoded_chars", len(base64Audio)),
				zap.Int("max_chars", s.maxChars),
			)
		}
		return nil, errors.ErrPayloadTooLarge(len(base64Audio), s.maxChars)
	}
	if !s.client.IsConfigured() {
		return nil, errors.ErrAINotConfigured()
	}

	parts := []gemini.Part{
		{Text: transcriptionPrompt},
		{InlineData: &gemini.InlineData{
			MimeType: audioMimeType,
			Data:     base64Audio,
		}},
	}
	genCfg := &gemini.GenerationConfig{
		Temperature:     0.1,
		MaxOutputTokens: 8192,
	}

	raw, err := s.client.GenerateContent(ctx, parts, genCfg)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Transcription upstream call failed", zap.Error(err))
		}
		return nil, fmt.Errorf("transcription request: %w", err)
	}

	text := strings.TrimSpace(raw)
	if text == "" {
		return nil, fmt.Errorf("No transcription text returned")
	}

	if s.logger != nil {
		s.logger.Info("✅ Transcription completed",
			zap.Int("text_length", len(text)),
		)
	}

	return &Result{
		Text:     text,
		Language: "auto-detected",
	}, nil
}
