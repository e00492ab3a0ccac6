package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/infrastructure/http/middleware"
	pkgvalidator "github.com/echovault/echovault/pkg/validator"
)

type stubFolderRepo struct {
	folders map[uuid.UUID]*entities.Folder
	links   map[uuid.UUID]map[uuid.UUID]struct{}
}

func newStubFolderRepo() *stubFolderRepo {
	return &stubFolderRepo{
		folders: make(map[uuid.UUID]*entities.Folder),
		links:   make(map[uuid.UUID]map[uuid.UUID]struct{}),
	}
}

func (s *stubFolderRepo) Create(ctx context.Context, folder *entities.Folder) error {
	s.folders[folder.ID] = folder
	return nil
}

func (s *stubFolderRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entities.Folder, error) {
	folder, ok := s.folders[id]
	if !ok || folder.UserID != userID {
		return nil, nil
	}
	return folder, nil
}

func (s *stubFolderRepo) FindAllByUser(ctx context.Context, userID uuid.UUID) ([]*entities.Folder, error) {
	out := make([]*entities.Folder, 0)
	for _, folder := range s.folders {
		if folder.UserID == userID {
			out = append(out, folder)
		}
	}
	return out, nil
}

func (s *stubFolderRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	folder, ok := s.folders[id]
	if !ok || folder.UserID != userID {
		return entities.ErrFolderNotFound
	}
	delete(s.folders, id)
	delete(s.links, id)
	return nil
}

func (s *stubFolderRepo) AddRecording(ctx context.Context, folderID, recordingID uuid.UUID) error {
	if s.links[folderID] == nil {
		s.links[folderID] = make(map[uuid.UUID]struct{})
	}
	if _, dup := s.links[folderID][recordingID]; dup {
		return entities.ErrRecordingAlreadyInFolder
	}
	s.links[folderID][recordingID] = struct{}{}
	return nil
}

func (s *stubFolderRepo) RemoveRecording(ctx context.Context, folderID, recordingID uuid.UUID) error {
	delete(s.links[folderID], recordingID)
	return nil
}

func (s *stubFolderRepo) FindRecordings(ctx context.Context, userID, folderID uuid.UUID) ([]*entities.Recording, error) {
	return nil, nil
}

type folderFixture struct {
	handler *Folder
	folders *stubFolderRepo
	repo    *stubRepo
	userID  uuid.UUID
	echo    *echo.Echo
}

func newFolderFixture(t *testing.T) *folderFixture {
	t.Helper()
	e := echo.New()
	e.Validator = pkgvalidator.New()
	folders := newStubFolderRepo()
	repo := newStubRepo()
	return &folderFixture{
		handler: NewFolder(folders, repo, nil),
		folders: folders,
		repo:    repo,
		userID:  uuid.New(),
		echo:    e,
	}
}

func (f *folderFixture) request(t *testing.T, method, path, body string, params ...string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := f.echo.NewContext(req, rec)
	c.Set(middleware.UserIDContextKey, f.userID)
	if len(params) > 0 {
		names := make([]string, 0, len(params)/2)
		values := make([]string, 0, len(params)/2)
		for i := 0; i+1 < len(params); i += 2 {
			names = append(names, params[i])
			values = append(values, params[i+1])
		}
		c.SetParamNames(names...)
		c.SetParamValues(values...)
	}
	return rec, c
}

func TestCreateFolder(t *testing.T) {
	f := newFolderFixture(t)

	rec, c := f.request(t, http.MethodPost, "/v1/folders", `{"name":"Work"}`)
	require.NoError(t, f.handler.Create(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var folder entities.Folder
	require.NoError(t, json.Unmarshal(env.Data, &folder))
	assert.Equal(t, "Work", folder.Name)
	assert.Equal(t, f.userID, folder.UserID)
	assert.Len(t, f.folders.folders, 1)
}

func TestCreateFolderRequiresName(t *testing.T) {
	f := newFolderFixture(t)

	rec, c := f.request(t, http.MethodPost, "/v1/folders", `{"name":""}`)
	require.NoError(t, f.handler.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.folders.folders)
}

func TestAddRecordingToFolder(t *testing.T) {
	f := newFolderFixture(t)
	folder := entities.NewFolder(f.userID, "Work")
	f.folders.folders[folder.ID] = folder
	recording := entities.NewRecording(f.userID, "http://cdn.example/a.webm")
	f.repo.recordings[recording.ID] = recording

	body, _ := json.Marshal(map[string]string{"recording_id": recording.ID.String()})
	rec, c := f.request(t, http.MethodPost, "/v1/folders/x/recordings", string(body), "id", folder.ID.String())
	require.NoError(t, f.handler.AddRecording(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, f.folders.links[folder.ID], recording.ID)
}

func TestAddRecordingToFolderTwiceConflicts(t *testing.T) {
	f := newFolderFixture(t)
	folder := entities.NewFolder(f.userID, "Work")
	f.folders.folders[folder.ID] = folder
	recording := entities.NewRecording(f.userID, "http://cdn.example/a.webm")
	f.repo.recordings[recording.ID] = recording

	body, _ := json.Marshal(map[string]string{"recording_id": recording.ID.String()})
	_, c := f.request(t, http.MethodPost, "/v1/folders/x/recordings", string(body), "id", folder.ID.String())
	require.NoError(t, f.handler.AddRecording(c))

	rec2, c2 := f.request(t, http.MethodPost, "/v1/folders/x/recordings", string(body), "id", folder.ID.String())
	require.NoError(t, f.handler.AddRecording(c2))
	assert.Equal(t, http.StatusConflict, rec2.Code)
}

func TestAddRecordingRequiresOwnedRecording(t *testing.T) {
	f := newFolderFixture(t)
	folder := entities.NewFolder(f.userID, "Work")
	f.folders.folders[folder.ID] = folder

	// A recording belonging to another user is invisible to the caller
	other := entities.NewRecording(uuid.New(), "http://cdn.example/other.webm")
	f.repo.recordings[other.ID] = other

	body, _ := json.Marshal(map[string]string{"recording_id": other.ID.String()})
	rec, c := f.request(t, http.MethodPost, "/v1/folders/x/recordings", string(body), "id", folder.ID.String())
	require.NoError(t, f.handler.AddRecording(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, f.folders.links[folder.ID])
}

func TestAddRecordingUnknownFolder(t *testing.T) {
	f := newFolderFixture(t)
	recording := entities.NewRecording(f.userID, "http://cdn.example/a.webm")
	f.repo.recordings[recording.ID] = recording

	body, _ := json.Marshal(map[string]string{"recording_id": recording.ID.String()})
	rec, c := f.request(t, http.MethodPost, "/v1/folders/x/recordings", string(body), "id", uuid.NewString())
	require.NoError(t, f.handler.AddRecording(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveRecordingFromFolder(t *testing.T) {
	f := newFolderFixture(t)
	folder := entities.NewFolder(f.userID, "Work")
	f.folders.folders[folder.ID] = folder
	recordingID := uuid.New()
	f.folders.links[folder.ID] = map[uuid.UUID]struct{}{recordingID: {}}

	rec, c := f.request(t, http.MethodDelete, "/v1/folders/x/recordings/y", "",
		"id", folder.ID.String(), "recordingId", recordingID.String())
	require.NoError(t, f.handler.RemoveRecording(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.folders.links[folder.ID])
}

func TestDeleteFolder(t *testing.T) {
	f := newFolderFixture(t)
	folder := entities.NewFolder(f.userID, "Work")
	f.folders.folders[folder.ID] = folder

	rec, c := f.request(t, http.MethodDelete, "/v1/folders/x", "", "id", folder.ID.String())
	require.NoError(t, f.handler.Delete(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, f.folders.folders)
}
