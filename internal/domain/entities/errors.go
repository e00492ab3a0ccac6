package entities

import "errors"

// Domain errors
var (
	// Recording errors
	ErrRecordingNotFound = errors.New("recording not found")
	ErrEmptyAudio        = errors.New("audio data is empty")
	ErrEmptyTranscript   = errors.New("transcript text is empty")

	// Folder errors
	ErrFolderNotFound          = errors.New("folder not found")
	ErrRecordingAlreadyInFolder = errors.New("recording already in folder")

	// Profile errors
	ErrProfileNotFound = errors.New("profile not found")

	// Share errors
	ErrShareNotFound = errors.New("share link not found or expired")

	// Generic errors
	ErrNotOwner       = errors.New("resource is owned by another user")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
)
