package models

import "time"

// Table is a seatable unit on the hall canvas. Tables are rendered as
// fixed-size squares; X/Y is the top-left corner in world coordinates.
type Table struct {
	ID          int64   `json:"id"`
	EventID     int64   `json:"event_id"`
	TableNumber int     `json:"table_number"`
	Capacity    int     `json:"capacity"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Shape       string  `json:"shape,omitempty"`
	HallType    string  `json:"hall_type,omitempty"`
	Category    string  `json:"category,omitempty"`
}

// HallElement is a non-seatable fixture (stage, entrance, kitchen, ...).
type HallElement struct {
	ID       int64   `json:"id"`
	EventID  int64   `json:"event_id"`
	Kind     string  `json:"element_type"`
	Label    string  `json:"label,omitempty"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// Seating links one guest to one table. A guest has at most one seating.
// Occupied flips when the guest physically checks in.
type Seating struct {
	ID        SeatingID `json:"id"`
	EventID   int64     `json:"event_id"`
	GuestID   int64     `json:"guest_id"`
	TableID   int64     `json:"table_id"`
	Occupied  bool      `json:"occupied,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

type Guest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender,omitempty"`
	Category  string `json:"category,omitempty"`
	Arrived   bool   `json:"arrived,omitempty"`
}

// Notification is an entry the backend stores for an event. Unread entries
// survive restarts; the console merges them with live feed entries by ID.
type Notification struct {
	ID        int64     `json:"id"`
	EventID   int64     `json:"event_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	GuestID   int64     `json:"guest_id,omitempty"`
	TableID   int64     `json:"table_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
