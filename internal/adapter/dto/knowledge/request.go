package knowledge

// UpsertRequest creates or replaces a knowledge graph entry keyed by tag
type UpsertRequest struct {
	Tag        string   `json:"tag" validate:"required,max=255"`
	LinkedTags []string `json:"linked_tags"`
}
