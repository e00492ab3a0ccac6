package entities

// AnalysisHighlight is a timestamped excerpt extracted by the analysis model
type AnalysisHighlight struct {
	Content   string  `json:"content"`
	Timestamp float64 `json:"timestamp"`
}

// AnalysisResult is the structured output demanded from the generative AI
// endpoint for a transcript
type AnalysisResult struct {
	Summary     string              `json:"summary"`
	KeyPoints   []string            `json:"keyPoints"`
	Sentiment   Sentiment           `json:"sentiment"`
	Tags        []string            `json:"tags"`
	Highlights  []AnalysisHighlight `json:"highlights"`
	ActionItems []string            `json:"actionItems"`
}

// FallbackSummary is the fixed summary substituted when the model response
// cannot be parsed as JSON
const FallbackSummary = "Analysis could not be completed due to parsing error"

// NewFallbackAnalysis returns the fixed neutral result used when the model
// response cannot be parsed. Callers treat it as a soft degradation, not an
// error.
func NewFallbackAnalysis() *AnalysisResult {
	return &AnalysisResult{
		Summary:     FallbackSummary,
		KeyPoints:   []string{},
		Sentiment:   SentimentNeutral,
		Tags:        []string{"transcription"},
		Highlights:  []AnalysisHighlight{},
		ActionItems: []string{},
	}
}

// NewErrorAnalysisStub returns the fallback-shaped stub attached to
// transport-level failure responses for caller convenience.
func NewErrorAnalysisStub() *AnalysisResult {
	return &AnalysisResult{
		Summary:     "Analysis failed",
		KeyPoints:   []string{},
		Sentiment:   SentimentNeutral,
		Tags:        []string{},
		Highlights:  []AnalysisHighlight{},
		ActionItems: []string{},
	}
}

// Normalize fills nil slices and coerces an unsupported sentiment to neutral
// so downstream consumers never see missing fields
func (a *AnalysisResult) Normalize() {
	if !a.Sentiment.IsValid() {
		a.Sentiment = SentimentNeutral
	}
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	if a.Tags == nil {
		a.Tags = []string{}
	}
	if a.Highlights == nil {
		a.Highlights = []AnalysisHighlight{}
	}
	if a.ActionItems == nil {
		a.ActionItems = []string{}
	}
}
