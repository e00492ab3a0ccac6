package ai

import "github.com/echovault/echovault/internal/domain/entities"

// TranscribeResponse is the success body of the transcription endpoint
type TranscribeResponse struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// TranscribeErrorResponse carries the upstream status and raw body when the
// generation endpoint rejects a transcription request
type TranscribeErrorResponse struct {
	Error        string `json:"error"`
	Details      string `json:"details,omitempty"`
	GeminiStatus int    `json:"gemini_status,omitempty"`
}

// AnalyzeErrorResponse is the transport-failure body of the analysis
// endpoint. The fallback-shaped stub fields are included for caller
// convenience so clients can render something without special-casing.
type AnalyzeErrorResponse struct {
	Error       string                       `json:"error"`
	Summary     string                       `json:"summary"`
	KeyPoints   []string                     `json:"keyPoints"`
	Sentiment   entities.Sentiment           `json:"sentiment"`
	Tags        []string                     `json:"tags"`
	Highlights  []entities.AnalysisHighlight `json:"highlights"`
	ActionItems []string                     `json:"actionItems"`
}

// NewAnalyzeErrorResponse builds the 500 body around the fixed stub
func NewAnalyzeErrorResponse(message string) AnalyzeErrorResponse {
	stub := entities.NewErrorAnalysisStub()
	return AnalyzeErrorResponse{
		Error:       message,
		Summary:     stub.Summary,
		KeyPoints:   stub.KeyPoints,
		Sentiment:   stub.Sentiment,
		Tags:        stub.Tags,
		Highlights:  stub.Highlights,
		ActionItems: stub.ActionItems,
	}
}
