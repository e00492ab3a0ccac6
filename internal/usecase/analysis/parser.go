package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/echovault/echovault/internal/domain/entities"
)

// Parser handles parsing and validation of model responses
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseModelJSON parses the model's JSON response into an AnalysisResult.
// The model sometimes wraps the payload in markdown code fences; those are
// stripped before parsing.
func (p *Parser) ParseModelJSON(jsonString string) (*entities.AnalysisResult, error) {
	jsonString = extractJSON(jsonString)

	var result entities.AnalysisResult
	if err := json.Unmarshal([]byte(jsonString), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if result.Summary == "" {
		return nil, fmt.Errorf("missing summary in response")
	}

	result.Normalize()
	return &result, nil
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
