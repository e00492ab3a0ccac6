package analysis

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/echovault/echovault/errors"
	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/pkg/gemini"
)

// analysisPromptTemplate demands a single JSON object of fixed shape.
// The model must not add prose or markdown around it.
const analysisPromptTemplate = `Analyze the following voice recording transcript and return ONLY a JSON object with exactly this shape, no other text:
{
  "summary": "a concise summary of the transcript",
  "keyPoints": ["3 to 5 key points"],
  "sentiment": "positive" | "neutral" | "negative",
  "tags": ["3 to 8 short topical tags"],
  "highlights": [{"content": "notable excerpt", "timestamp": 0}],
  "actionItems": ["action items mentioned, if any"]
}

Transcript:
%s`

// Service analyzes transcript text through the generative AI endpoint
type Service struct {
	client *gemini.Client
	parser *Parser
	logger *zap.Logger
}

// NewService constructs an analysis service
func NewService(client *gemini.Client, logger *zap.Logger) *Service {
	return &Service{
		client: client,
		parser: NewParser(),
		logger: logger,
	}
}

// Analyze sends the transcript to the model and returns the structured result.
// A malformed model response degrades to the fixed neutral fallback and is
// still a success; only transport-level failures return an error.
func (s *Service) Analyze(ctx context.Context, text string) (*entities.AnalysisResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.ErrInvalidArgument("text is required")
	}
	if !s.client.IsConfigured() {
		return nil, errors.ErrAINotConfigured()
	}

	prompt := fmt.Sprintf(analysisPromptTemplate, text)
	parts := []gemini.Part{{Text: prompt}}
	genCfg := &gemini.GenerationConfig{
		Temperature:     0.3,
		MaxOutputTokens: 4096,
	}

	raw, err := s.client.GenerateContent(ctx, parts, genCfg)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("❌ Analysis upstream call failed", zap.Error(err))
		}
		return nil, fmt.Errorf("analysis request: %w", err)
	}

	result, parseErr := s.parser.ParseModelJSON(raw)
	if parseErr != nil {
		if s.logger != nil {
			s.logger.Warn("⚠️ Analysis response could not be parsed, using fallback",
				zap.Error(parseErr),
			)
		}
		return entities.NewFallbackAnalysis(), nil
	}

	if s.logger != nil {
		s.logger.Info("✅ Analysis completed",
			zap.String("sentiment", string(result.Sentiment)),
			zap.Int("tag_count", len(result.Tags)),
			zap.Int("highlight_count", len(result.Highlights)),
		)
	}

	return result, nil
}
