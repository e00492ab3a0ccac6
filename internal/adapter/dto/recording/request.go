package recording

// SaveRequest carries a finished recording into the processing pipeline.
// Audio arrives base64-encoded; the title is optional.
type SaveRequest struct {
	Audio string  `json:"audio" validate:"required"`
	Title *string `json:"title,omitempty"`
}

// RenameRequest updates a recording's title
type RenameRequest struct {
	Title string `json:"title" validate:"required,max=255"`
}
