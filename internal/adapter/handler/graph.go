package handler

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/internal/usecase/graph"
)

// Graph serves the derived tag co-occurrence graph
type Graph struct {
	service *graph.Service
	logger  *zap.Logger
}

// NewGraph creates the graph handler
func NewGraph(service *graph.Service, logger *zap.Logger) *Graph {
	return &Graph{service: service, logger: logger}
}

// Build handles GET /v1/graph, recomputing the graph in full
func (h *Graph) Build(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	g, err := h.service.BuildGraph(c.Request().Context(), userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}
	return HandleSuccess(h.logger, c, g)
}
