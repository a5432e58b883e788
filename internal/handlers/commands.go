package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hallsync/internal/metrics"
	"hallsync/internal/models"
)

// Assign - POST /api/v1/commands/assign
func (h *Handlers) Assign(c *gin.Context) {
	var req models.AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coord.Assign(c.Request.Context(), req.GuestID, req.TableID, req.Force)
	metrics.RecordCommand("assign", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Unassign - POST /api/v1/commands/unassign
func (h *Handlers) Unassign(c *gin.Context) {
	var req models.UnassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.coord.Unassign(c.Request.Context(), req.GuestID)
	metrics.RecordCommand("unassign", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AssignCategory - POST /api/v1/commands/assign-category
// Seats every unseated guest of the category; partial failure is a normal
// outcome, reported per guest.
func (h *Handlers) AssignCategory(c *gin.Context) {
	var req models.AssignCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results := h.coord.AssignCategory(c.Request.Context(), req.Category, req.TableID)
	metrics.RecordCommand("assign-category", nil)
	c.JSON(http.StatusOK, models.AssignCategoryResponse{Results: results})
}

// Move - POST /api/v1/commands/move
func (h *Handlers) Move(c *gin.Context) {
	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committed, err := h.controller.Move(req.Kind, req.ID, req.DX, req.DY, req.Done)
	metrics.RecordCommand("move", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if committed {
		h.coord.SavePositionsSoon()
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Resize - POST /api/v1/commands/resize
func (h *Handlers) Resize(c *gin.Context) {
	var req models.ResizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committed, err := h.controller.Resize(req.ID, req.Handle, req.DX, req.DY, req.Shift, req.Done)
	metrics.RecordCommand("resize", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if committed {
		h.coord.SavePositionsSoon()
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Rotate - POST /api/v1/commands/rotate
func (h *Handlers) Rotate(c *gin.Context) {
	var req models.RotateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	committed, err := h.controller.Rotate(req.ID, req.PX, req.PY, req.Done)
	metrics.RecordCommand("rotate", err)
	if err != nil {
		respondError(c, err)
		return
	}
	if committed {
		h.coord.SavePositionsSoon()
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Zoom - POST /api/v1/commands/zoom
func (h *Handlers) Zoom(c *gin.Context) {
	var req models.ZoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zoom := h.controller.ZoomBy(req.Delta)
	c.JSON(http.StatusOK, models.ZoomResponse{Zoom: zoom})
}

// Pan - POST /api/v1/commands/pan
func (h *Handlers) Pan(c *gin.Context) {
	var req models.PanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	px, py := h.controller.PanBy(req.DX, req.DY)
	c.JSON(http.StatusOK, gin.H{"pan_x": px, "pan_y": py})
}
