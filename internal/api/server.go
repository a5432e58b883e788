package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"hallsync/internal/backend"
	"hallsync/internal/config"
	"hallsync/internal/coordinator"
	"hallsync/internal/handlers"
	"hallsync/internal/interaction"
	"hallsync/internal/logger"
	"hallsync/internal/metrics"
	"hallsync/internal/middleware"
	"hallsync/internal/models"
	syncpkg "hallsync/internal/sync"
)

// Server wires the console: backend client, coordinator, gesture
// controller, sync engine and the HTTP surface.
type Server struct {
	router     *gin.Engine
	config     *config.Config
	coord      *coordinator.Coordinator
	controller *interaction.Controller
	center     *syncpkg.Center
	hub        *syncpkg.Hub
	watcher    *syncpkg.Watcher
	poller     *syncpkg.Poller

	cancelSync context.CancelFunc
}

func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)
	log := logger.Get()

	be := backend.NewClient(cfg.Backend)
	coord := coordinator.New(cfg.Coordinator, be, log)
	controller := interaction.NewController(coord)
	hub := syncpkg.NewHub(log)
	center := syncpkg.NewCenter(cfg.Coordinator.EventID, be, log)
	watcher := syncpkg.NewWatcher(cfg.Coordinator.EventID, be, coord, center, log)
	poller := syncpkg.NewPoller(cfg.PollInterval, coord, center, controller.Busy, log)

	// committed changes fan out to every connected console
	coord.OnChange(func() {
		hub.Broadcast(models.PushMessage{
			Type:   models.PushStateChanged,
			Tables: coord.TableViews(),
		})
	})
	center.OnChange(func(n models.Notification) {
		hub.Broadcast(models.PushMessage{
			Type:         models.PushNotification,
			Notification: &n,
		})
	})

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(metrics.Middleware())

	server := &Server{
		router:     router,
		config:     cfg,
		coord:      coord,
		controller: controller,
		center:     center,
		hub:        hub,
		watcher:    watcher,
		poller:     poller,
	}

	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	h := handlers.NewHandlers(s.coord, s.controller, s.center, s.hub)

	api := s.router.Group("/api/v1")
	{
		api.GET("/state", h.GetState)

		tables := api.Group("/tables")
		{
			tables.GET("", h.ListTables)
			tables.POST("", h.CreateTable)
			tables.POST("/bulk", h.CreateTablesBulk)
			tables.PUT("/:id", h.UpdateTable)
			tables.DELETE("/:id", h.DeleteTable)
		}

		fixtures := api.Group("/fixtures")
		{
			fixtures.POST("", h.CreateFixture)
			fixtures.PUT("/:id", h.UpdateFixture)
			fixtures.DELETE("/:id", h.DeleteFixture)
		}

		api.POST("/layout/auto", h.AutoLayout)

		commands := api.Group("/commands")
		{
			commands.POST("/assign", h.Assign)
			commands.POST("/unassign", h.Unassign)
			commands.POST("/assign-category", h.AssignCategory)
			commands.POST("/move", h.Move)
			commands.POST("/resize", h.Resize)
			commands.POST("/rotate", h.Rotate)
			commands.POST("/zoom", h.Zoom)
			commands.POST("/pan", h.Pan)
		}

		notifications := api.Group("/notifications")
		{
			notifications.GET("", h.ListNotifications)
			notifications.POST("/:id/read", h.MarkNotificationRead)
		}
	}

	s.router.GET("/ws", h.ServeWS)
	s.router.GET("/metrics", metrics.Handler())
	s.router.GET("/health", s.healthCheck)
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "hallsync-console",
		"version": "1.0.0",
	})
}

// Start loads the initial state and launches the sync loops.
func (s *Server) Start(ctx context.Context) error {
	if err := s.coord.Refresh(ctx); err != nil {
		return fmt.Errorf("initial state load failed: %w", err)
	}

	syncCtx, cancel := context.WithCancel(context.Background())
	s.cancelSync = cancel
	go s.watcher.Run(syncCtx)
	go s.poller.Run(syncCtx)
	return nil
}

// GetRouter exposes the router for tests and the HTTP server.
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup stops the sync loops and persists any pending layout saves.
func (s *Server) Cleanup(ctx context.Context) error {
	if s.cancelSync != nil {
		s.cancelSync()
	}
	return s.coord.FlushPendingSaves(ctx)
}
