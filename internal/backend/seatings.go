package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"hallsync/internal/models"
)

type createSeatingRequest struct {
	EventID int64 `json:"event_id"`
	GuestID int64 `json:"guest_id"`
	TableID int64 `json:"table_id"`
}

type createSeatingResponse struct {
	ID int64 `json:"id"`
}

func (c *Client) ListSeatings(ctx context.Context, eventID int64) ([]models.Seating, error) {
	path := fmt.Sprintf("/seatings/event/%d", eventID)

	var seatings []models.Seating
	if err := c.do(ctx, "list seatings", http.MethodGet, path, nil, &seatings); err != nil {
		return nil, fmt.Errorf("failed to list seatings: %w", err)
	}
	return seatings, nil
}

// CreateSeating returns the server-assigned seating id.
func (c *Client) CreateSeating(ctx context.Context, s models.Seating) (int64, error) {
	req := createSeatingRequest{EventID: s.EventID, GuestID: s.GuestID, TableID: s.TableID}

	var resp createSeatingResponse
	if err := c.do(ctx, "create seating", http.MethodPost, "/seatings", req, &resp); err != nil {
		return 0, fmt.Errorf("failed to create seating: %w", err)
	}
	return resp.ID, nil
}

func (c *Client) DeleteSeating(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/seatings/%d", id)
	if err := c.do(ctx, "delete seating", http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete seating %d: %w", id, err)
	}
	return nil
}

// ListGuestsWithFields fetches guests for an event, restricted to the named
// fields to keep the payload small.
func (c *Client) ListGuestsWithFields(ctx context.Context, eventID int64, fields []string) ([]models.Guest, error) {
	path := fmt.Sprintf("/guests/event/%d/with-fields", eventID)
	if len(fields) > 0 {
		path += "?fields=" + url.QueryEscape(strings.Join(fields, ","))
	}

	var guests []models.Guest
	if err := c.do(ctx, "list guests", http.MethodGet, path, nil, &guests); err != nil {
		return nil, fmt.Errorf("failed to list guests: %w", err)
	}
	return guests, nil
}
