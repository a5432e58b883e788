package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	stdsync "sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallsync/internal/backend"
	"hallsync/internal/coordinator"
	"hallsync/internal/interaction"
	"hallsync/internal/models"
	syncpkg "hallsync/internal/sync"
)

// fakeEventService is an in-memory stand-in for the backend REST API.
type fakeEventService struct {
	mu       stdsync.Mutex
	tables   []models.Table
	fixtures []models.HallElement
	seatings []models.Seating
	guests   []models.Guest
	nextID   int64
}

func (f *fakeEventService) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /tables/event/42", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.tables)
	})
	mux.HandleFunc("GET /tables/hall-elements/event/42", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.fixtures)
	})
	mux.HandleFunc("PUT /tables/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("PUT /tables/hall-elements/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /seatings/event/42", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.seatings)
	})
	mux.HandleFunc("POST /seatings", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			EventID int64 `json:"event_id"`
			GuestID int64 `json:"guest_id"`
			TableID int64 `json:"table_id"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		defer f.mu.Unlock()
		f.nextID++
		f.seatings = append(f.seatings, models.Seating{
			ID: models.ConfirmedID(f.nextID), EventID: req.EventID,
			GuestID: req.GuestID, TableID: req.TableID,
		})
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]int64{"id": f.nextID})
	})
	mux.HandleFunc("DELETE /seatings/{id}", func(w http.ResponseWriter, r *http.Request) {
		var id int64
		fmt.Sscanf(r.PathValue("id"), "%d", &id)

		f.mu.Lock()
		defer f.mu.Unlock()
		for i, s := range f.seatings {
			if v, err := s.ID.Ref(); err == nil && v == id {
				f.seatings = append(f.seatings[:i], f.seatings[i+1:]...)
				break
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("GET /guests/event/42/with-fields", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		json.NewEncoder(w).Encode(f.guests)
	})
	mux.HandleFunc("GET /realtime/notifications/event/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Notification{})
	})
	mux.HandleFunc("POST /realtime/notifications/{id}/mark-read", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func setupRouter(t *testing.T) (*gin.Engine, *fakeEventService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := &fakeEventService{
		nextID: 100,
		tables: []models.Table{
			{ID: 1, EventID: 42, TableNumber: 1, Capacity: 2, X: 100, Y: 100},
			{ID: 2, EventID: 42, TableNumber: 2, Capacity: 4, X: 400, Y: 100},
		},
		fixtures: []models.HallElement{
			{ID: 3, EventID: 42, Kind: "stage", X: 200, Y: 60, Width: 1200, Height: 200},
		},
		guests: []models.Guest{
			{ID: 10, FirstName: "Dana", LastName: "Levi", Category: "vip"},
			{ID: 11, FirstName: "Omri", LastName: "Katz", Category: "vip"},
		},
	}
	srv := httptest.NewServer(svc.handler())
	t.Cleanup(srv.Close)

	log := slog.New(slog.DiscardHandler)
	be := backend.NewClient(backend.Config{BaseURL: srv.URL})
	coord := coordinator.New(coordinator.Config{
		EventID:           42,
		TableSaveDelay:    10 * time.Millisecond,
		PositionSaveDelay: 10 * time.Millisecond,
	}, be, log)
	require.NoError(t, coord.Refresh(t.Context()))

	controller := interaction.NewController(coord)
	hub := syncpkg.NewHub(log)
	center := syncpkg.NewCenter(42, be, log)
	h := NewHandlers(coord, controller, center, hub)

	r := gin.New()
	api := r.Group("/api/v1")
	{
		api.GET("/state", h.GetState)
		api.GET("/tables", h.ListTables)
		api.PUT("/tables/:id", h.UpdateTable)
		api.POST("/commands/assign", h.Assign)
		api.POST("/commands/unassign", h.Unassign)
		api.POST("/commands/assign-category", h.AssignCategory)
		api.POST("/commands/move", h.Move)
		api.POST("/commands/zoom", h.Zoom)
		api.GET("/notifications", h.ListNotifications)
		api.POST("/notifications/:id/read", h.MarkNotificationRead)
	}
	return r, svc
}

func postJSON(t *testing.T, r *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)

	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetState(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/state", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var state models.StateView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Len(t, state.Tables, 2)
	assert.Len(t, state.HallElements, 1)
	assert.Equal(t, 1.0, state.Zoom)
	assert.Equal(t, 1600.0, state.CanvasWidth)
}

func TestAssignAndUnassign(t *testing.T) {
	r, svc := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/assign", models.AssignRequest{GuestID: 10, TableID: 1})
	assert.Equal(t, http.StatusOK, w.Code)

	svc.mu.Lock()
	require.Len(t, svc.seatings, 1)
	assert.Equal(t, int64(1), svc.seatings[0].TableID)
	svc.mu.Unlock()

	req, _ := http.NewRequest("GET", "/api/v1/tables", nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)

	var views []models.TableView
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &views))
	assert.Equal(t, 1, views[0].OccupiedSeats)
	assert.Equal(t, "partial", views[0].Status)

	w = postJSON(t, r, "/api/v1/commands/unassign", models.UnassignRequest{GuestID: 10})
	assert.Equal(t, http.StatusOK, w.Code)

	svc.mu.Lock()
	assert.Empty(t, svc.seatings)
	svc.mu.Unlock()
}

func TestAssignUnknownGuestRejected(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/assign", models.AssignRequest{GuestID: 999, TableID: 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignCategoryReportsPerGuest(t *testing.T) {
	r, _ := setupRouter(t)

	// table 1 seats two, the vip category has exactly two guests
	w := postJSON(t, r, "/api/v1/commands/assign-category", models.AssignCategoryRequest{Category: "vip", TableID: 1})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AssignCategoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].OK)
	assert.True(t, resp.Results[1].OK)
}

func TestMoveCommand(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/move", models.MoveRequest{Kind: "table", ID: 1, DX: 50, DY: 0, Done: true})
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ := http.NewRequest("GET", "/api/v1/tables", nil)
	lw := httptest.NewRecorder()
	r.ServeHTTP(lw, req)

	var views []models.TableView
	require.NoError(t, json.Unmarshal(lw.Body.Bytes(), &views))
	assert.Equal(t, 150.0, views[0].X)
}

func TestMoveUnknownKindRejected(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/move", models.MoveRequest{Kind: "chair", ID: 1, DX: 5})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestZoomCommandClamps(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/zoom", models.ZoomRequest{Delta: 10})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ZoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3.0, resp.Zoom)
}

func TestZoomZeroDeltaEchoesCurrent(t *testing.T) {
	r, _ := setupRouter(t)

	w := postJSON(t, r, "/api/v1/commands/zoom", models.ZoomRequest{Delta: 0})
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.ZoomResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp.Zoom)
}

func TestUpdateTableValidation(t *testing.T) {
	r, _ := setupRouter(t)

	bad := -2
	raw, _ := json.Marshal(models.UpdateTableRequest{Capacity: &bad})
	req, _ := http.NewRequest("PUT", "/api/v1/tables/1", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestNotificationsEmptyTray(t *testing.T) {
	r, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/api/v1/notifications", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}
