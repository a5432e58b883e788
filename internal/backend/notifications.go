package backend

import (
	"context"
	"fmt"
	"net/http"

	"hallsync/internal/models"
)

func (c *Client) ListNotifications(ctx context.Context, eventID int64) ([]models.Notification, error) {
	path := fmt.Sprintf("/realtime/notifications/event/%d", eventID)

	var notifications []models.Notification
	if err := c.do(ctx, "list notifications", http.MethodGet, path, nil, &notifications); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/realtime/notifications/%d/mark-read", id)
	if err := c.do(ctx, "mark notification read", http.MethodPost, path, nil, nil); err != nil {
		return fmt.Errorf("failed to mark notification %d read: %w", id, err)
	}
	return nil
}
