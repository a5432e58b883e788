package models

// Realtime feed event types
const (
	EventTableFull          = "table_full"
	EventTableAlmostFull    = "table_almost_full"
	EventTableOverbooked    = "table_overbooked"
	EventGuestArrived       = "guest_arrived"
	EventGuestArrivedNoSeat = "guest_arrived_no_seat"
)

// RealtimeTable carries the occupancy snapshot attached to table events.
type RealtimeTable struct {
	ID                  int64   `json:"id"`
	TableNumber         int     `json:"table_number"`
	OccupiedSeats       int     `json:"occupied_seats"`
	TotalSeats          int     `json:"total_seats"`
	OccupancyPercentage float64 `json:"occupancy_percentage"`
}

type RealtimeGuest struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// RealtimeEvent is one frame of the backend feed. Table and Guest are
// optional depending on the type.
type RealtimeEvent struct {
	Type      string         `json:"type"`
	Table     *RealtimeTable `json:"table,omitempty"`
	Guest     *RealtimeGuest `json:"guest,omitempty"`
	Timestamp string         `json:"timestamp"`
}

// Console fan-out message types
const (
	PushStateChanged = "state_changed"
	PushNotification = "notification"
)

// PushMessage is one frame broadcast to connected console clients.
type PushMessage struct {
	Type         string        `json:"type"`
	Tables       []TableView   `json:"tables,omitempty"`
	Notification *Notification `json:"notification,omitempty"`
}
