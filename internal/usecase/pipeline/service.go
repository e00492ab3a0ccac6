package pipeline

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/domain/repositories"
	"github.com/echovault/echovault/internal/usecase/transcription"
)

// ObjectStore uploads finished audio and returns its public location
type ObjectStore interface {
	UploadAudio(ctx context.Context, userID uuid.UUID, data []byte) (string, error)
}

// Transcriber converts base64 audio into text
type Transcriber interface {
	Transcribe(ctx context.Context, base64Audio string) (*transcription.Result, error)
}

// Analyzer produces the structured analysis for a transcript
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*entities.AnalysisResult, error)
}

// RefreshPublisher signals views that a recording finished processing
type RefreshPublisher interface {
	PublishRecordingSaved(ctx context.Context, userID, recordingID uuid.UUID) error
}

// Service orchestrates the upload, transcribe, analyze, persist flow.
// Every step runs sequentially; no step is retried.
type Service struct {
	store     ObjectStore
	transcr   Transcriber
	analyzer  Analyzer
	repo      repositories.RecordingRepository
	publisher RefreshPublisher
	maxChars  int
	logger    *zap.Logger
}

// NewService constructs the pipeline orchestrator
func NewService(
	store ObjectStore,
	transcr Transcriber,
	analyzer Analyzer,
	repo repositories.RecordingRepository,
	publisher RefreshPublisher,
	maxChars int,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:     store,
		transcr:   transcr,
		analyzer:  analyzer,
		repo:      repo,
		publisher: publisher,
		maxChars:  maxChars,
		logger:    logger,
	}
}

// SaveAndProcess runs the whole pipeline for one finished recording and
// returns the persisted row. Any failure before the persist step leaves no
// partial row behind; duration probing and the refresh signal are best-effort.
func (s *Service) SaveAndProcess(ctx context.Context, audio []byte, title *string, ownerID uuid.UUID) (*entities.Recording, error) {
	if len(audio) == 0 {
		return nil, errors.ErrInvalidArgument("audio data is required")
	}

	// Step 1: upload to object storage under the owner's namespace
	audioURL, err := s.store.UploadAudio(ctx, ownerID, audio)
	if err != nil {
		return nil, errors.ErrUploadFailed(err)
	}
	if s.logger != nil {
		s.logger.Info("📤 Audio uploaded",
			zap.String("user_id", ownerID.String()),
			zap.String("audio_url", audioURL),
		)
	}

	// Step 2: encode for transport and reject over-length payloads locally
	// instead of wasting the upstream call
	encoded := base64.StdEncoding.EncodeToString(audio)
	if len(encoded) > s.maxChars {
		return nil, errors.ErrPayloadTooLarge(len(encoded), s.maxChars)
	}

	// Step 3: transcription failure is fatal, nothing has been written yet
	tr, err := s.transcr.Transcribe(ctx, encoded)
	if err != nil {
		return nil, errors.ErrTranscriptionFailed(err)
	}

	// Step 4: analysis is tolerant of a degraded result as long as a summary
	// came back; only a result with no usable summary aborts
	analysis, err := s.analyzer.Analyze(ctx, tr.Text)
	if err != nil {
		if analysis == nil || strings.TrimSpace(analysis.Summary) == "" {
			return nil, errors.ErrAnalysisFailed(err)
		}
		if s.logger != nil {
			s.logger.Warn("⚠️ Analysis degraded but summary present, continuing",
				zap.Error(err),
			)
		}
	}
	analysis.Normalize()

	// Step 5: best-effort local duration probe; failure never aborts the save
	durationSeconds := 0
	if secs, probeErr := ProbeWebMDuration(audio); probeErr != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Duration probe failed", zap.Error(probeErr))
		}
	} else {
		durationSeconds = secs
	}

	// Step 6: single write of the recording row
	recording := entities.NewRecording(ownerID, audioURL)
	recording.Title = title
	recording.Transcription = tr.Text
	recording.Summary = analysis.Summary
	recording.Sentiment = analysis.Sentiment
	recording.Tags = analysis.Tags
	recording.DurationSeconds = durationSeconds
	recording.DurationFormatted = entities.FormatDuration(durationSeconds)

	if err := s.repo.Create(ctx, recording); err != nil {
		return nil, errors.ErrPersistFailed(err)
	}

	// Second write for highlights, keyed by the new recording's id
	if len(analysis.Highlights) > 0 {
		highlights := make([]entities.Highlight, 0, len(analysis.Highlights))
		for _, h := range analysis.Highlights {
			highlights = append(highlights, *entities.NewHighlight(recording.ID, h.Timestamp, h.Content))
		}
		if err := s.repo.CreateHighlights(ctx, highlights); err != nil {
			return nil, errors.ErrPersistFailed(err)
		}
		recording.Highlights = highlights
	}

	if s.logger != nil {
		s.logger.Info("✅ Recording saved",
			zap.String("recording_id", recording.ID.String()),
			zap.String("user_id", ownerID.String()),
			zap.Int("highlight_count", len(recording.Highlights)),
		)
	}

	// Step 7: decoupled refresh signal so views can re-fetch
	if s.publisher != nil {
		if err := s.publisher.PublishRecordingSaved(ctx, ownerID, recording.ID); err != nil && s.logger != nil {
			s.logger.Warn("⚠️ Failed to publish refresh signal", zap.Error(err))
		}
	}

	return recording, nil
}
