package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hallsync/internal/coordinator"
	apperrors "hallsync/internal/errors"
	"hallsync/internal/interaction"
	"hallsync/internal/models"
	syncpkg "hallsync/internal/sync"
)

type Handlers struct {
	coord      *coordinator.Coordinator
	controller *interaction.Controller
	center     *syncpkg.Center
	hub        *syncpkg.Hub
}

func NewHandlers(coord *coordinator.Coordinator, controller *interaction.Controller, center *syncpkg.Center, hub *syncpkg.Hub) *Handlers {
	return &Handlers{
		coord:      coord,
		controller: controller,
		center:     center,
		hub:        hub,
	}
}

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case apperrors.IsValidation(err):
		status = http.StatusBadRequest
	case apperrors.IsConflict(err):
		status = http.StatusConflict
	case apperrors.IsNetwork(err):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

// GetState - GET /api/v1/state
func (h *Handlers) GetState(c *gin.Context) {
	state := h.coord.State()
	state.Zoom, state.PanX, state.PanY = h.controller.Viewport()
	c.JSON(http.StatusOK, state)
}

// ServeWS - GET /ws
// Upgrades the console connection and greets it with the current state.
func (h *Handlers) ServeWS(c *gin.Context) {
	h.hub.Serve(c.Writer, c.Request, func() models.PushMessage {
		return models.PushMessage{
			Type:   models.PushStateChanged,
			Tables: h.coord.TableViews(),
		}
	})
}
