package ai

// TranscribeRequest carries base64 audio for transcription
type TranscribeRequest struct {
	Audio string `json:"audio" validate:"required"`
}

// AnalyzeRequest carries transcript text for analysis
type AnalyzeRequest struct {
	Text string `json:"text" validate:"required"`
}
