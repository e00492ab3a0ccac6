package library

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/domain/repositories"
	"github.com/echovault/echovault/internal/infrastructure/cache"
)

const snippetMaxLen = 160

// ObjectRemover deletes an uploaded audio object by its URL
type ObjectRemover interface {
	RemoveByURL(ctx context.Context, audioURL string) error
}

// SearchResult is a lightweight record returned by Search
type SearchResult struct {
	ID       uuid.UUID `json:"id"`
	Title    string    `json:"title"`
	Snippet  string    `json:"snippet"`
	Date     string    `json:"date"`
	Tags     []string  `json:"tags"`
	AudioURL string    `json:"audio_url"`
}

// Stats aggregates the caller's library without re-invoking any AI service
type Stats struct {
	RecordingCount       int            `json:"recording_count"`
	TotalDurationSeconds int            `json:"total_duration_seconds"`
	TotalDuration        string         `json:"total_duration"`
	SentimentBreakdown   map[string]int `json:"sentiment_breakdown"`
}

// Service exposes read and maintenance operations over saved recordings
type Service struct {
	repo     repositories.RecordingRepository
	remover  ObjectRemover
	shares   *cache.ShareStore
	shareTTL time.Duration
	logger   *zap.Logger
}

// NewService constructs a library service
func NewService(
	repo repositories.RecordingRepository,
	remover ObjectRemover,
	shares *cache.ShareStore,
	shareTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if shareTTL <= 0 {
		shareTTL = 24 * time.Hour
	}
	return &Service{
		repo:     repo,
		remover:  remover,
		shares:   shares,
		shareTTL: shareTTL,
		logger:   logger,
	}
}

// List returns all of the caller's recordings with their highlights
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]*entities.Recording, error) {
	recordings, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	for _, rec := range recordings {
		highlights, err := s.repo.FindHighlights(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("load highlights: %w", err)
		}
		rec.Highlights = highlights
	}
	return recordings, nil
}

// Get returns a single recording with highlights, scoped to the caller
func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*entities.Recording, error) {
	recording, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, fmt.Errorf("find recording: %w", err)
	}
	if recording == nil {
		return nil, entities.ErrRecordingNotFound
	}
	highlights, err := s.repo.FindHighlights(ctx, recording.ID)
	if err != nil {
		return nil, fmt.Errorf("load highlights: %w", err)
	}
	recording.Highlights = highlights
	return recording, nil
}

// Search loads the caller's recordings once and linearly filters them by
// case-insensitive substring over title, transcript, summary, and tags
func (s *Service) Search(ctx context.Context, userID uuid.UUID, query string) ([]SearchResult, error) {
	recordings, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("search recordings: %w", err)
	}

	results := make([]SearchResult, 0)
	for _, rec := range recordings {
		if !rec.MatchesQuery(query) {
			continue
		}
		results = append(results, SearchResult{
			ID:       rec.ID,
			Title:    rec.DisplayTitle(),
			Snippet:  rec.Snippet(snippetMaxLen),
			Date:     rec.CreatedAt.Format("Jan 2, 2006"),
			Tags:     rec.Tags,
			AudioURL: rec.AudioURL,
		})
	}
	return results, nil
}

// Rename updates a recording's title
func (s *Service) Rename(ctx context.Context, userID, id uuid.UUID, title string) error {
	return s.repo.UpdateTitle(ctx, userID, id, title)
}

// Delete removes the stored audio object and the row. The row delete cascades
// to highlights. Object removal failure aborts before the row is touched so a
// dangling object cannot outlive a deleted row unnoticed.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	recording, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("find recording: %w", err)
	}
	if recording == nil {
		return entities.ErrRecordingNotFound
	}

	if s.remover != nil {
		if err := s.remover.RemoveByURL(ctx, recording.AudioURL); err != nil {
			return fmt.Errorf("remove audio object: %w", err)
		}
	}

	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("🗑️ Recording deleted",
			zap.String("recording_id", id.String()),
			zap.String("user_id", userID.String()),
		)
	}
	return nil
}

// DownloadURL returns the audio location for client-side download
func (s *Service) DownloadURL(ctx context.Context, userID, id uuid.UUID) (string, error) {
	recording, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return "", fmt.Errorf("find recording: %w", err)
	}
	if recording == nil {
		return "", entities.ErrRecordingNotFound
	}
	return recording.AudioURL, nil
}

// Share mints a time-limited token that resolves to the recording without
// authentication
func (s *Service) Share(ctx context.Context, userID, id uuid.UUID) (string, time.Time, error) {
	recording, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("find recording: %w", err)
	}
	if recording == nil {
		return "", time.Time{}, entities.ErrRecordingNotFound
	}

	token, err := s.shares.Issue(userID, id, s.shareTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue share token: %w", err)
	}
	return token, time.Now().Add(s.shareTTL), nil
}

// ResolveShare looks up a share token and returns the shared recording
func (s *Service) ResolveShare(ctx context.Context, token string) (*entities.Recording, error) {
	ownerID, recordingID, ok := s.shares.Resolve(token)
	if !ok {
		return nil, entities.ErrShareNotFound
	}
	recording, err := s.repo.FindByID(ctx, ownerID, recordingID)
	if err != nil {
		return nil, fmt.Errorf("find shared recording: %w", err)
	}
	if recording == nil {
		return nil, entities.ErrShareNotFound
	}
	return recording, nil
}

// Stats derives aggregate counters from the stored rows only
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (*Stats, error) {
	recordings, err := s.repo.FindAllByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load recordings: %w", err)
	}

	stats := &Stats{
		SentimentBreakdown: map[string]int{
			string(entities.SentimentPositive): 0,
			string(entities.SentimentNeutral):  0,
			string(entities.SentimentNegative): 0,
		},
	}
	for _, rec := range recordings {
		stats.RecordingCount++
		stats.TotalDurationSeconds += rec.DurationSeconds
		stats.SentimentBreakdown[string(rec.Sentiment)]++
	}
	stats.TotalDuration = entities.FormatDuration(stats.TotalDurationSeconds)
	return stats, nil
}
