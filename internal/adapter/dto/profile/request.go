package profile

// UpdateRequest changes the caller's display name
type UpdateRequest struct {
	FullName string `json:"full_name" validate:"required,max=255"`
}
