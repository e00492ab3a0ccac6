package recording

import (
	"time"

	"github.com/google/uuid"

	"github.com/echovault/echovault/internal/domain/entities"
)

// HighlightResponse is one timestamped excerpt of a recording
type HighlightResponse struct {
	ID               uuid.UUID `json:"id"`
	TimestampSeconds float64   `json:"timestamp_seconds"`
	Content          string    `json:"content"`
}

// Response is the full API shape of a recording
type Response struct {
	ID                uuid.UUID           `json:"id"`
	Title             string              `json:"title"`
	AudioURL          string              `json:"audio_url"`
	Transcription     string              `json:"transcription"`
	Summary           string              `json:"summary"`
	Sentiment         entities.Sentiment  `json:"sentiment"`
	Tags              []string            `json:"tags"`
	DurationSeconds   int                 `json:"duration_seconds"`
	DurationFormatted string              `json:"duration_formatted"`
	CreatedAt         time.Time           `json:"created_at"`
	Highlights        []HighlightResponse `json:"highlights"`
}

// FromEntity maps a recording entity to its API shape
func FromEntity(rec *entities.Recording) Response {
	highlights := make([]HighlightResponse, 0, len(rec.Highlights))
	for _, h := range rec.Highlights {
		highlights = append(highlights, HighlightResponse{
			ID:               h.ID,
			TimestampSeconds: h.TimestampSeconds,
			Content:          h.Content,
		})
	}
	return Response{
		ID:                rec.ID,
		Title:             rec.DisplayTitle(),
		AudioURL:          rec.AudioURL,
		Transcription:     rec.Transcription,
		Summary:           rec.Summary,
		Sentiment:         rec.Sentiment,
		Tags:              rec.Tags,
		DurationSeconds:   rec.DurationSeconds,
		DurationFormatted: rec.DurationFormatted,
		CreatedAt:         rec.CreatedAt,
		Highlights:        highlights,
	}
}

// FromEntities maps a list of recordings
func FromEntities(recs []*entities.Recording) []Response {
	out := make([]Response, 0, len(recs))
	for _, rec := range recs {
		out = append(out, FromEntity(rec))
	}
	return out
}

// ShareResponse is the minted share token for a recording
type ShareResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DownloadResponse carries the audio location for client-side download
type DownloadResponse struct {
	AudioURL string `json:"audio_url"`
}
