package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/echovault/echovault/internal/domain/entities"
)

const validAnalysisJSON = `{
	"summary": "A quick sync about the launch",
	"keyPoints": ["launch date moved", "docs pending"],
	"sentiment": "positive",
	"tags": ["launch", "planning"],
	"highlights": [{"content": "Launch moves to Friday", "timestamp": 33.5}],
	"actionItems": ["update the docs"]
}`

func TestParseModelJSONPlain(t *testing.T) {
	p := NewParser()

	result, err := p.ParseModelJSON(validAnalysisJSON)
	require.NoError(t, err)

	assert.Equal(t, "A quick sync about the launch", result.Summary)
	assert.Equal(t, entities.SentimentPositive, result.Sentiment)
	assert.Equal(t, []string{"launch", "planning"}, result.Tags)
	require.Len(t, result.Highlights, 1)
	assert.Equal(t, 33.5, result.Highlights[0].Timestamp)
}

func TestParseModelJSONStripsCodeFences(t *testing.T) {
	p := NewParser()

	for _, wrapped := range []string{
		"```json\n" + validAnalysisJSON + "\n```",
		"```\n" + validAnalysisJSON + "\n```",
		"  \n```json\n" + validAnalysisJSON + "\n```\n  ",
	} {
		result, err := p.ParseModelJSON(wrapped)
		require.NoError(t, err)
		assert.Equal(t, "A quick sync about the launch", result.Summary)
	}
}

func TestParseModelJSONRejectsNonJSON(t *testing.T) {
	p := NewParser()

	_, err := p.ParseModelJSON("Sure! Here is your analysis: the call went well.")
	assert.Error(t, err)
}

func TestParseModelJSONRejectsMissingSummary(t *testing.T) {
	p := NewParser()

	_, err := p.ParseModelJSON(`{"sentiment": "positive", "tags": ["a"]}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing summary")
}

func TestParseModelJSONNormalizesSparseResult(t *testing.T) {
	p := NewParser()

	result, err := p.ParseModelJSON(`{"summary": "short note", "sentiment": "ecstatic"}`)
	require.NoError(t, err)

	// Unknown sentiment coerces to neutral, nil slices become empty
	assert.Equal(t, entities.SentimentNeutral, result.Sentiment)
	assert.NotNil(t, result.KeyPoints)
	assert.NotNil(t, result.Tags)
	assert.NotNil(t, result.Highlights)
	assert.NotNil(t, result.ActionItems)
}
