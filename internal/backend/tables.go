package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"hallsync/internal/models"
)

func (c *Client) ListTables(ctx context.Context, eventID int64, hallType string) ([]models.Table, error) {
	path := fmt.Sprintf("/tables/event/%d", eventID)
	if hallType != "" {
		path += "?hall_type=" + url.QueryEscape(hallType)
	}

	var tables []models.Table
	if err := c.do(ctx, "list tables", http.MethodGet, path, nil, &tables); err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (c *Client) CreateTable(ctx context.Context, table models.Table) (models.Table, error) {
	var created models.Table
	if err := c.do(ctx, "create table", http.MethodPost, "/tables/add-single", table, &created); err != nil {
		return models.Table{}, fmt.Errorf("failed to create table: %w", err)
	}
	return created, nil
}

func (c *Client) CreateTablesBulk(ctx context.Context, tables []models.Table) ([]models.Table, error) {
	var created []models.Table
	if err := c.do(ctx, "create tables bulk", http.MethodPost, "/tables/bulk", tables, &created); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateTable(ctx context.Context, table models.Table) error {
	path := fmt.Sprintf("/tables/%d", table.ID)
	if err := c.do(ctx, "update table", http.MethodPut, path, table, nil); err != nil {
		return fmt.Errorf("failed to update table %d: %w", table.ID, err)
	}
	return nil
}

func (c *Client) DeleteTable(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/tables/%d", id)
	if err := c.do(ctx, "delete table", http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete table %d: %w", id, err)
	}
	return nil
}

func (c *Client) ListHallElements(ctx context.Context, eventID int64) ([]models.HallElement, error) {
	path := fmt.Sprintf("/tables/hall-elements/event/%d", eventID)

	var elements []models.HallElement
	if err := c.do(ctx, "list hall elements", http.MethodGet, path, nil, &elements); err != nil {
		return nil, fmt.Errorf("failed to list hall elements: %w", err)
	}
	return elements, nil
}

func (c *Client) CreateHallElement(ctx context.Context, el models.HallElement) (models.HallElement, error) {
	var created models.HallElement
	if err := c.do(ctx, "create hall element", http.MethodPost, "/tables/hall-elements", el, &created); err != nil {
		return models.HallElement{}, fmt.Errorf("failed to create hall element: %w", err)
	}
	return created, nil
}

func (c *Client) UpdateHallElement(ctx context.Context, el models.HallElement) error {
	path := fmt.Sprintf("/tables/hall-elements/%d", el.ID)
	if err := c.do(ctx, "update hall element", http.MethodPut, path, el, nil); err != nil {
		return fmt.Errorf("failed to update hall element %d: %w", el.ID, err)
	}
	return nil
}

func (c *Client) DeleteHallElement(ctx context.Context, id int64) error {
	path := fmt.Sprintf("/tables/hall-elements/%d", id)
	if err := c.do(ctx, "delete hall element", http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete hall element %d: %w", id, err)
	}
	return nil
}
