package library

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/infrastructure/cache"
)

type fakeRepo struct {
	recordings map[uuid.UUID]*entities.Recording
	highlights map[uuid.UUID][]entities.Highlight
	findErr    error
	deleteErr  error
	deleted    []uuid.UUID
	titles     map[uuid.UUID]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		recordings: make(map[uuid.UUID]*entities.Recording),
		highlights: make(map[uuid.UUID][]entities.Highlight),
		titles:     make(map[uuid.UUID]string),
	}
}

func (f *fakeRepo) add(rec *entities.Recording) {
	f.recordings[rec.ID] = rec
}

func (f *fakeRepo) Create(ctx context.Context, recording *entities.Recording) error {
	f.add(recording)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Recording, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.recordings[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (f *fakeRepo) FindByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Recording, error) {
	for _, rec := range f.recordings {
		if rec.UserID == userID && rec.AudioURL == audioURL {
			return rec, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Recording, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	out := make([]*entities.Recording, 0)
	for _, rec := range f.recordings {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateTitle(ctx context.Context, userID, id uuid.UUID, title string) error {
	rec, ok := f.recordings[id]
	if !ok || rec.UserID != userID {
		return entities.ErrRecordingNotFound
	}
	f.titles[id] = title
	rec.Title = &title
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	rec, ok := f.recordings[id]
	if !ok || rec.UserID != userID {
		return entities.ErrRecordingNotFound
	}
	delete(f.recordings, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRepo) CreateHighlights(ctx context.Context, highlights []entities.Highlight) error {
	for _, h := range highlights {
		f.highlights[h.RecordingID] = append(f.highlights[h.RecordingID], h)
	}
	return nil
}

func (f *fakeRepo) FindHighlights(ctx context.Context, recordingID uuid.UUID) ([]entities.Highlight, error) {
	return f.highlights[recordingID], nil
}

type fakeRemover struct {
	removed []string
	err     error
}

func (f *fakeRemover) RemoveByURL(ctx context.Context, audioURL string) error {
	if f.err != nil {
		return f.err
	}
	f.removed = append(f.removed, audioURL)
	return nil
}

func teamSyncRecording(userID uuid.UUID) *entities.Recording {
	title := "Team Sync"
	rec := entities.NewRecording(userID, "http://cdn.example/u/sync.webm")
	rec.Title = &title
	rec.Transcription = "We walked through the roadmap for next quarter."
	rec.Summary = "Roadmap review with open staffing questions."
	rec.Sentiment = entities.SentimentPositive
	rec.Tags = datatypes.JSONSlice[string]{"work", "planning"}
	rec.DurationSeconds = 90
	return rec
}

func newTestService(repo *fakeRepo, remover *fakeRemover) *Service {
	return NewService(repo, remover, cache.NewShareStore(), time.Hour, nil)
}

func TestSearchMatchesTitleTranscriptAndTags(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	repo.add(teamSyncRecording(userID))
	svc := newTestService(repo, &fakeRemover{})

	for _, query := range []string{"team", "Sync", "roadmap", "planning", "staffing"} {
		results, err := svc.Search(context.Background(), userID, query)
		require.NoError(t, err)
		require.Len(t, results, 1, "query %q", query)
		assert.Equal(t, "Team Sync", results[0].Title)
		assert.NotEmpty(t, results[0].Snippet)
	}

	results, err := svc.Search(context.Background(), userID, "nonexistent")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchIsScopedToUser(t *testing.T) {
	owner := uuid.New()
	repo := newFakeRepo()
	repo.add(teamSyncRecording(owner))
	svc := newTestService(repo, &fakeRemover{})

	results, err := svc.Search(context.Background(), uuid.New(), "team")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchSnippetPrefersSummary(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	svc := newTestService(repo, &fakeRemover{})

	results, err := svc.Search(context.Background(), userID, "roadmap")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, rec.Summary, results[0].Snippet)
}

func TestListLoadsHighlights(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	repo.highlights[rec.ID] = []entities.Highlight{
		{ID: uuid.New(), RecordingID: rec.ID, Content: "Ship by March"},
	}
	svc := newTestService(repo, &fakeRemover{})

	recordings, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	require.Len(t, recordings[0].Highlights, 1)
	assert.Equal(t, "Ship by March", recordings[0].Highlights[0].Content)
}

func TestGetUnknownRecording(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeRemover{})

	_, err := svc.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, entities.ErrRecordingNotFound)
}

func TestRenameUpdatesTitle(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	svc := newTestService(repo, &fakeRemover{})

	require.NoError(t, svc.Rename(context.Background(), userID, rec.ID, "Renamed"))
	assert.Equal(t, "Renamed", repo.titles[rec.ID])
}

func TestDeleteRemovesObjectThenRow(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	remover := &fakeRemover{}
	svc := newTestService(repo, remover)

	require.NoError(t, svc.Delete(context.Background(), userID, rec.ID))
	assert.Equal(t, []string{rec.AudioURL}, remover.removed)
	assert.Equal(t, []uuid.UUID{rec.ID}, repo.deleted)
}

func TestDeleteAbortsWhenObjectRemovalFails(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	remover := &fakeRemover{err: errors.New("storage unavailable")}
	svc := newTestService(repo, remover)

	err := svc.Delete(context.Background(), userID, rec.ID)
	assert.Error(t, err)
	assert.Empty(t, repo.deleted)
	assert.Contains(t, repo.recordings, rec.ID)
}

func TestShareAndResolve(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	svc := newTestService(repo, &fakeRemover{})

	token, expiresAt, err := svc.Share(context.Background(), userID, rec.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))

	shared, err := svc.ResolveShare(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, shared.ID)
}

func TestResolveShareUnknownToken(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeRemover{})

	_, err := svc.ResolveShare(context.Background(), "deadbeef")
	assert.ErrorIs(t, err, entities.ErrShareNotFound)
}

func TestShareExpiredTokenDoesNotResolve(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()
	rec := teamSyncRecording(userID)
	repo.add(rec)
	svc := NewService(repo, &fakeRemover{}, cache.NewShareStore(), time.Millisecond, nil)

	token, _, err := svc.Share(context.Background(), userID, rec.ID)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)
	_, err = svc.ResolveShare(context.Background(), token)
	assert.ErrorIs(t, err, entities.ErrShareNotFound)
}

func TestStatsAggregatesWithoutAI(t *testing.T) {
	userID := uuid.New()
	repo := newFakeRepo()

	positive := teamSyncRecording(userID)
	repo.add(positive)

	negative := entities.NewRecording(userID, "http://cdn.example/u/vent.webm")
	negative.Sentiment = entities.SentimentNegative
	negative.DurationSeconds = 45
	repo.add(negative)

	svc := newTestService(repo, &fakeRemover{})

	stats, err := svc.Stats(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.RecordingCount)
	assert.Equal(t, 135, stats.TotalDurationSeconds)
	assert.Equal(t, "02:15", stats.TotalDuration)
	assert.Equal(t, 1, stats.SentimentBreakdown["positive"])
	assert.Equal(t, 1, stats.SentimentBreakdown["negative"])
	assert.Equal(t, 0, stats.SentimentBreakdown["neutral"])
}

func TestStatsEmptyLibrary(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeRemover{})

	stats, err := svc.Stats(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.RecordingCount)
	assert.Equal(t, "00:00", stats.TotalDuration)
}
