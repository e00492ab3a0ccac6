package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/echovault/echovault/errors"
	knowledgedto "github.com/echovault/echovault/internal/adapter/dto/knowledge"
	"github.com/echovault/echovault/internal/domain/entities"
	"github.com/echovault/echovault/internal/domain/repositories"
)

// KnowledgeGraph serves the authored knowledge graph table, shared across
// all authenticated users
type KnowledgeGraph struct {
	entries repositories.KnowledgeGraphRepository
	logger  *zap.Logger
}

// NewKnowledgeGraph creates the knowledge graph handler
func NewKnowledgeGraph(entries repositories.KnowledgeGraphRepository, logger *zap.Logger) *KnowledgeGraph {
	return &KnowledgeGraph{entries: entries, logger: logger}
}

// List handles GET /v1/knowledge-graph
func (h *KnowledgeGraph) List(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	entries, err := h.entries.FindAll(c.Request().Context())
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, entries)
}

// Upsert handles PUT /v1/knowledge-graph, keyed by tag
func (h *KnowledgeGraph) Upsert(c echo.Context) error {
	if _, err := requireUserID(c); err != nil {
		return HandleError(h.logger, c, err)
	}

	var req knowledgedto.UpsertRequest
	if err := c.Bind(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	if err := c.Validate(&req); err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidArgument(err.Error()))
	}

	entry := &entities.KnowledgeGraphEntry{
		Tag:        req.Tag,
		LinkedTags: datatypes.JSONSlice[string](req.LinkedTags),
	}
	if err := h.entries.Upsert(c.Request().Context(), entry); err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, entry)
}
