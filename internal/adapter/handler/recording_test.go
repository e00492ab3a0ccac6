package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/infrastructure/cache"
	"github.com/echovault/echovault/internal/infrastructure/http/middleware"
	"github.com/echovault/echovault/internal/usecase/library"
	"github.com/echovault/echovault/internal/usecase/pipeline"
	"github.com/echovault/echovault/internal/usecase/transcription"
	pkgvalidator "github.com/echovault/echovault/pkg/validator"
)

// stubRepo is an in-memory RecordingRepository for handler tests
type stubRepo struct {
	recordings map[uuid.UUID]*entities.Recording
	highlights map[uuid.UUID][]entities.Highlight
}

func newStubRepo() *stubRepo {
	return &stubRepo{
		recordings: make(map[uuid.UUID]*entities.Recording),
		highlights: make(map[uuid.UUID][]entities.Highlight),
	}
}

func (s *stubRepo) Create(ctx context.Context, recording *entities.Recording) error {
	s.recordings[recording.ID] = recording
	return nil
}

func (s *stubRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Recording, error) {
	rec, ok := s.recordings[id]
	if !ok || rec.UserID != userID {
		return nil, nil
	}
	return rec, nil
}

func (s *stubRepo) FindByAudioURL(ctx context.Context, userID uuid.UUID, audioURL string) (*entities.Recording, error) {
	for _, rec := range s.recordings {
		if rec.UserID == userID && rec.AudioURL == audioURL {
			return rec, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Recording, error) {
	out := make([]*entities.Recording, 0)
	for _, rec := range s.recordings {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateTitle(ctx context.Context, userID, id uuid.UUID, title string) error {
	rec, ok := s.recordings[id]
	if !ok || rec.UserID != userID {
		return entities.ErrRecordingNotFound
	}
	rec.Title = &title
	return nil
}

func (s *stubRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	rec, ok := s.recordings[id]
	if !ok || rec.UserID != userID {
		return entities.ErrRecordingNotFound
	}
	delete(s.recordings, id)
	return nil
}

func (s *stubRepo) CreateHighlights(ctx context.Context, highlights []entities.Highlight) error {
	for _, h := range highlights {
		s.highlights[h.RecordingID] = append(s.highlights[h.RecordingID], h)
	}
	return nil
}

func (s *stubRepo) FindHighlights(ctx context.Context, recordingID uuid.UUID) ([]entities.Highlight, error) {
	return s.highlights[recordingID], nil
}

type stubStore struct{}

func (stubStore) UploadAudio(ctx context.Context, userID uuid.UUID, data []byte) (string, error) {
	return "http://cdn.example/" + userID.String() + "/audio.webm", nil
}

func (stubStore) RemoveByURL(ctx context.Context, audioURL string) error { return nil }

type stubTranscriber struct{}

func (stubTranscriber) Transcribe(ctx context.Context, base64Audio string) (*transcription.Result, error) {
	return &transcription.Result{Text: "stub transcript", Language: "auto-detected"}, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(ctx context.Context, text string) (*entities.AnalysisResult, error) {
	return &entities.AnalysisResult{
		Summary:   "stub summary",
		Sentiment: entities.SentimentPositive,
		Tags:      []string{"stub"},
		Highlights: []entities.AnalysisHighlight{
			{Content: "a moment", Timestamp: 3},
		},
	}, nil
}

type stubPublisher struct{}

func (stubPublisher) PublishRecordingSaved(ctx context.Context, userID, recordingID uuid.UUID) error {
	return nil
}

type recordingFixture struct {
	handler *Recording
	repo    *stubRepo
	userID  uuid.UUID
	echo    *echo.Echo
}

func newRecordingFixture(t *testing.T) *recordingFixture {
	t.Helper()
	repo := newStubRepo()
	pipelineSvc := pipeline.NewService(stubStore{}, stubTranscriber{}, stubAnalyzer{}, repo, stubPublisher{}, 10_000_000, nil)
	librarySvc := library.NewService(repo, stubStore{}, cache.NewShareStore(), time.Hour, nil)

	e := echo.New()
	e.Validator = pkgvalidator.New()

	return &recordingFixture{
		handler: NewRecording(pipelineSvc, librarySvc, nil),
		repo:    repo,
		userID:  uuid.New(),
		echo:    e,
	}
}

func (f *recordingFixture) request(t *testing.T, method, path, body string, authed bool, params ...string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	if authed {
		c.Set(middleware.UserIDContextKey, f.userID)
	}
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return rec, c
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func (f *recordingFixture) seed(t *testing.T) *entities.Recording {
	t.Helper()
	title := "Team Sync"
	rec := entities.NewRecording(f.userID, "http://cdn.example/u/"+uuid.NewString()+".webm")
	rec.Title = &title
	rec.Transcription = "we discussed the roadmap"
	rec.Summary = "roadmap review"
	rec.Sentiment = entities.SentimentPositive
	rec.Tags = datatypes.JSONSlice[string]{"work"}
	rec.DurationSeconds = 60
	f.repo.recordings[rec.ID] = rec
	return rec
}

func TestSaveRecordingRunsPipeline(t *testing.T) {
	f := newRecordingFixture(t)

	audio := base64.StdEncoding.EncodeToString([]byte("fake webm bytes"))
	body, _ := json.Marshal(map[string]interface{}{"audio": audio, "title": "My note"})
	rec, c := f.request(t, http.MethodPost, "/v1/recordings", string(body), true)

	require.NoError(t, f.handler.Save(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var saved struct {
		ID            uuid.UUID `json:"id"`
		Title         string    `json:"title"`
		Transcription string    `json:"transcription"`
		Summary       string    `json:"summary"`
		AudioURL      string    `json:"audio_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &saved))
	assert.Equal(t, "My note", saved.Title)
	assert.Equal(t, "stub transcript", saved.Transcription)
	assert.Equal(t, "stub summary", saved.Summary)
	assert.NotEmpty(t, saved.AudioURL)

	// The pipeline persisted the row and its highlight
	require.Len(t, f.repo.recordings, 1)
	assert.Len(t, f.repo.highlights[saved.ID], 1)
}

func TestSaveRecordingRequiresAuth(t *testing.T) {
	f := newRecordingFixture(t)

	rec, c := f.request(t, http.MethodPost, "/v1/recordings", `{"audio":"ZmFrZQ=="}`, false)
	require.NoError(t, f.handler.Save(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSaveRecordingRejectsBadBase64(t *testing.T) {
	f := newRecordingFixture(t)

	rec, c := f.request(t, http.MethodPost, "/v1/recordings", `{"audio":"not base64!!!"}`, true)
	require.NoError(t, f.handler.Save(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.repo.recordings)
}

func TestGetRecordingNotFound(t *testing.T) {
	f := newRecordingFixture(t)

	rec, c := f.request(t, http.MethodGet, "/v1/recordings/x", "", true, "id", uuid.NewString())
	require.NoError(t, f.handler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetRecordingScopedToOwner(t *testing.T) {
	f := newRecordingFixture(t)
	other := entities.NewRecording(uuid.New(), "http://cdn.example/other.webm")
	f.repo.recordings[other.ID] = other

	rec, c := f.request(t, http.MethodGet, "/v1/recordings/x", "", true, "id", other.ID.String())
	require.NoError(t, f.handler.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenameRecording(t *testing.T) {
	f := newRecordingFixture(t)
	seeded := f.seed(t)

	rec, c := f.request(t, http.MethodPatch, "/v1/recordings/x", `{"title":"Renamed"}`, true, "id", seeded.ID.String())
	require.NoError(t, f.handler.Rename(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Renamed", *f.repo.recordings[seeded.ID].Title)
}

func TestRenameRecordingRejectsEmptyTitle(t *testing.T) {
	f := newRecordingFixture(t)
	seeded := f.seed(t)

	rec, c := f.request(t, http.MethodPatch, "/v1/recordings/x", `{"title":""}`, true, "id", seeded.ID.String())
	require.NoError(t, f.handler.Rename(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteRecording(t *testing.T) {
	f := newRecordingFixture(t)
	seeded := f.seed(t)

	rec, c := f.request(t, http.MethodDelete, "/v1/recordings/x", "", true, "id", seeded.ID.String())
	require.NoError(t, f.handler.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.repo.recordings)
}

func TestSearchEndpoint(t *testing.T) {
	f := newRecordingFixture(t)
	f.seed(t)

	rec, c := f.request(t, http.MethodGet, "/v1/search?q=roadmap", "", true)
	require.NoError(t, f.handler.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var results []library.SearchResult
	require.NoError(t, json.Unmarshal(env.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Team Sync", results[0].Title)
}

func TestStatsEndpoint(t *testing.T) {
	f := newRecordingFixture(t)
	f.seed(t)

	rec, c := f.request(t, http.MethodGet, "/v1/stats", "", true)
	require.NoError(t, f.handler.Stats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var stats library.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 1, stats.RecordingCount)
	assert.Equal(t, "01:00", stats.TotalDuration)
}

func TestShareThenResolveWithoutAuth(t *testing.T) {
	f := newRecordingFixture(t)
	seeded := f.seed(t)

	rec, c := f.request(t, http.MethodPost, "/v1/recordings/x/share", "", true, "id", seeded.ID.String())
	require.NoError(t, f.handler.Share(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var share struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &share))
	require.NotEmpty(t, share.Token)

	// Resolution is public; no user id is set on the context
	rec2, c2 := f.request(t, http.MethodGet, "/v1/shared/x", "", false, "token", share.Token)
	require.NoError(t, f.handler.ResolveShare(c2))
	require.Equal(t, http.StatusOK, rec2.Code)

	env2 := decodeEnvelope(t, rec2)
	var resolved struct {
		ID uuid.UUID `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env2.Data, &resolved))
	assert.Equal(t, seeded.ID, resolved.ID)
}

func TestResolveShareUnknownToken(t *testing.T) {
	f := newRecordingFixture(t)

	rec, c := f.request(t, http.MethodGet, "/v1/shared/x", "", false, "token", "deadbeef")
	require.NoError(t, f.handler.ResolveShare(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
