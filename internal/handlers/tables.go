package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hallsync/internal/models"
)

// ListTables - GET /api/v1/tables
func (h *Handlers) ListTables(c *gin.Context) {
	c.JSON(http.StatusOK, h.coord.TableViews())
}

// CreateTable - POST /api/v1/tables
func (h *Handlers) CreateTable(c *gin.Context) {
	var req models.CreateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.coord.AddTable(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// CreateTablesBulk - POST /api/v1/tables/bulk
func (h *Handlers) CreateTablesBulk(c *gin.Context) {
	var req models.CreateTablesBulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.coord.AddTablesBulk(c.Request.Context(), req.Count, req.Capacity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateTable - PUT /api/v1/tables/:id
func (h *Handlers) UpdateTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateTableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.coord.UpdateTableMeta(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteTable - DELETE /api/v1/tables/:id
func (h *Handlers) DeleteTable(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.coord.RemoveTable(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// CreateFixture - POST /api/v1/fixtures
func (h *Handlers) CreateFixture(c *gin.Context) {
	var req models.CreateFixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.coord.AddFixture(c.Request.Context(), req.Kind, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateFixture - PUT /api/v1/fixtures/:id
func (h *Handlers) UpdateFixture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.UpdateFixtureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.coord.UpdateFixtureMeta(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// DeleteFixture - DELETE /api/v1/fixtures/:id
func (h *Handlers) DeleteFixture(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.coord.RemoveFixture(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// AutoLayout - POST /api/v1/layout/auto
// Recomputes fixture positions around the current tables.
func (h *Handlers) AutoLayout(c *gin.Context) {
	placed := h.coord.AutoLayoutFixtures()
	c.JSON(http.StatusOK, placed)
}
