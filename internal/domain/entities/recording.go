package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Sentiment is the overall tone assigned to a recording by analysis
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsValid checks if the sentiment is one of the supported values
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Recording is a single saved voice capture with its derived transcript and
// analysis. It is written once, atomically, after transcription and analysis
// complete; the derived views (search, graph, stats) read only these fields
// and never re-invoke the AI service.
type Recording struct {
	ID                uuid.UUID                   `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID            uuid.UUID                   `json:"user_id" gorm:"type:uuid;not null;index"`
	Title             *string                     `json:"title,omitempty" gorm:"type:varchar(255)"`
	AudioURL          string                      `json:"audio_url" gorm:"type:text;not null;uniqueIndex"`
	Transcription     string                      `json:"transcription" gorm:"type:text"`
	Summary           string                      `json:"summary" gorm:"type:text"`
	Sentiment         Sentiment                   `json:"sentiment" gorm:"type:varchar(20);not null;default:'neutral'"`
	Tags              datatypes.JSONSlice[string] `json:"tags" gorm:"type:jsonb"`
	DurationSeconds   int                         `json:"duration_seconds"`
	DurationFormatted string                      `json:"duration_formatted" gorm:"type:varchar(10)"`
	CreatedAt         time.Time                   `json:"created_at" gorm:"autoCreateTime"`

	Highlights []Highlight `json:"highlights,omitempty" gorm:"foreignKey:RecordingID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the table name for GORM
func (Recording) TableName() string {
	return "recordings"
}

// NewRecording creates a recording owned by the given user
func NewRecording(userID uuid.UUID, audioURL string) *Recording {
	return &Recording{
		ID:        uuid.New(),
		UserID:    userID,
		AudioURL:  audioURL,
		Sentiment: SentimentNeutral,
		Tags:      datatypes.JSONSlice[string]{},
		CreatedAt: time.Now(),
	}
}

// DisplayTitle returns the title or a fallback derived from the creation time
func (r *Recording) DisplayTitle() string {
	if r.Title != nil && strings.TrimSpace(*r.Title) != "" {
		return *r.Title
	}
	return "Recording " + r.CreatedAt.Format("Jan 2, 2006 15:04")
}

// MatchesQuery reports whether the query is a case-insensitive substring of
// the title, transcription, summary, or any tag
func (r *Recording) MatchesQuery(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	if strings.Contains(strings.ToLower(r.DisplayTitle()), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Transcription), q) {
		return true
	}
	if strings.Contains(strings.ToLower(r.Summary), q) {
		return true
	}
	for _, tag := range r.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Snippet returns a short preview, preferring the summary over the transcript
func (r *Recording) Snippet(maxLen int) string {
	text := r.Summary
	if strings.TrimSpace(text) == "" {
		text = r.Transcription
	}
	text = strings.TrimSpace(text)
	if maxLen > 0 && len(text) > maxLen {
		return text[:maxLen] + "..."
	}
	return text
}

// FormatDuration renders whole seconds as zero-padded MM:SS
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
