package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "hallsync/internal/errors"
	"hallsync/internal/models"
)

func TestListTables(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/tables/event/42", r.URL.Path)
		assert.Equal(t, "banquet", r.URL.Query().Get("hall_type"))

		json.NewEncoder(w).Encode([]models.Table{
			{ID: 1, EventID: 42, TableNumber: 1, Capacity: 10, X: 100, Y: 200},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	tables, err := c.ListTables(context.Background(), 42, "banquet")
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, int64(1), tables[0].ID)
	assert.Equal(t, 10, tables[0].Capacity)
}

func TestCreateSeatingReturnsServerID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/seatings", r.URL.Path)

		var req createSeatingRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, int64(5), req.GuestID)
		assert.Equal(t, int64(3), req.TableID)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(createSeatingResponse{ID: 777})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	id, err := c.CreateSeating(context.Background(), models.Seating{EventID: 42, GuestID: 5, TableID: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(777), id)
}

func TestConflictStatusBecomesConflictError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"table is full"}`, http.StatusConflict)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	_, err := c.CreateSeating(context.Background(), models.Seating{EventID: 42, GuestID: 5, TableID: 3})
	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
}

func TestServerErrorBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	err := c.DeleteSeating(context.Background(), 9)
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := c.ListSeatings(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsNetwork(err))
}

func TestListGuestsWithFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guests/event/42/with-fields", r.URL.Path)
		assert.Equal(t, "id,first_name,last_name,category", r.URL.Query().Get("fields"))

		json.NewEncoder(w).Encode([]models.Guest{{ID: 1, FirstName: "Dana", Category: "vip"}})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	guests, err := c.ListGuestsWithFields(context.Background(), 42, []string{"id", "first_name", "last_name", "category"})
	require.NoError(t, err)
	require.Len(t, guests, 1)
	assert.Equal(t, "Dana", guests[0].FirstName)
}

func TestMarkNotificationRead(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		assert.Equal(t, "/realtime/notifications/12/mark-read", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	require.NoError(t, c.MarkNotificationRead(context.Background(), 12))
	assert.True(t, called)
}
