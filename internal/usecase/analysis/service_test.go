package analysis

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/pkg/config"
	"github.com/echovault/echovault/pkg/gemini"
)

func newUpstream(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *gemini.Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := gemini.NewClient(&config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "test-model",
		Timeout: 5 * time.Second,
	})
	return srv, client
}

func modelText(text string) []byte {
	body := map[string]interface{}{
		"candidates": []map[string]interface{}{
			{"content": map[string]interface{}{
				"parts": []map[string]string{{"text": text}},
			}},
		},
	}
	b, _ := json.Marshal(body)
	return b
}

func TestAnalyzeParsesModelResponse(t *testing.T) {
	_, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelText("```json\n" + validAnalysisJSON + "\n```"))
	})
	svc := NewService(client, nil)

	result, err := svc.Analyze(context.Background(), "we talked about the launch")
	require.NoError(t, err)
	assert.Equal(t, "A quick sync about the launch", result.Summary)
	assert.Equal(t, entities.SentimentPositive, result.Sentiment)
}

func TestAnalyzeSendsTranscriptInPrompt(t *testing.T) {
	var gotBody string
	_, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Contents) > 0 && len(req.Contents[0].Parts) > 0 {
			gotBody = req.Contents[0].Parts[0].Text
		}
		w.Write(modelText(validAnalysisJSON))
	})
	svc := NewService(client, nil)

	_, err := svc.Analyze(context.Background(), "the transcript body")
	require.NoError(t, err)
	assert.Contains(t, gotBody, "the transcript body")
	assert.Contains(t, gotBody, "ONLY a JSON object")
}

func TestAnalyzeFallsBackOnUnparseableResponse(t *testing.T) {
	_, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(modelText("I could not produce JSON, sorry."))
	})
	svc := NewService(client, nil)

	result, err := svc.Analyze(context.Background(), "some transcript")
	require.NoError(t, err)
	assert.Equal(t, entities.FallbackSummary, result.Summary)
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)
	assert.Equal(t, []string{"transcription"}, result.Tags)
	assert.Empty(t, result.Highlights)
}

func TestAnalyzeReturnsErrorOnUpstreamFailure(t *testing.T) {
	_, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"backend error"}}`))
	})
	svc := NewService(client, nil)

	result, err := svc.Analyze(context.Background(), "some transcript")
	require.Error(t, err)
	assert.Nil(t, result)
}

func TestAnalyzeRejectsEmptyText(t *testing.T) {
	_, client := newUpstream(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("upstream must not be called")
	})
	svc := NewService(client, nil)

	_, err := svc.Analyze(context.Background(), "   ")
	assert.Error(t, err)
}
