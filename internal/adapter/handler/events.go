package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/echovault/echovault/internal/infrastructure/cache"
)

// Events streams refresh signals to views over SSE so they can re-fetch
// without polling or coupling to the pipeline
type Events struct {
	bus    *cache.RefreshBus
	logger *zap.Logger
}

// NewEvents creates the events handler
func NewEvents(bus *cache.RefreshBus, logger *zap.Logger) *Events {
	return &Events{bus: bus, logger: logger}
}

// Stream handles GET /v1/events as a server-sent event stream of the
// caller's refresh signals. The stream ends when the client disconnects.
func (h *Events) Stream(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	ctx := c.Request().Context()
	events, err := h.bus.Subscribe(ctx, userID)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	resp := c.Response()
	resp.Header().Set(echo.HeaderContentType, "text/event-stream")
	resp.Header().Set("Cache-Control", "no-cache")
	resp.Header().Set("Connection", "keep-alive")
	resp.WriteHeader(http.StatusOK)
	resp.Flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(event)
			if err != nil {
				if h.logger != nil {
					h.logger.Warn("⚠️ Failed to marshal refresh event", zap.Error(err))
				}
				continue
			}
			if _, err := fmt.Fprintf(resp, "event: refresh\ndata: %s\n\n", payload); err != nil {
				return nil
			}
			resp.Flush()
		}
	}
}
