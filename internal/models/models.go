package models

// TableView is the console-facing projection of a table: geometry plus the
// derived occupancy classification.
type TableView struct {
	ID                  int64   `json:"id"`
	TableNumber         int     `json:"table_number"`
	Capacity            int     `json:"capacity"`
	X                   float64 `json:"x"`
	Y                   float64 `json:"y"`
	OccupiedSeats       int     `json:"occupied_seats"`
	OccupancyPercentage float64 `json:"occupancy_percentage"`
	Status              string  `json:"status"`
	Guests              []Guest `json:"guests,omitempty"`
}

// StateView is the full working-copy snapshot returned by GET /state.
type StateView struct {
	Tables       []TableView   `json:"tables"`
	HallElements []HallElement `json:"hall_elements"`
	Seatings     []Seating     `json:"seatings"`
	Zoom         float64       `json:"zoom"`
	PanX         float64       `json:"pan_x"`
	PanY         float64       `json:"pan_y"`
	CanvasWidth  float64       `json:"canvas_width"`
	CanvasHeight float64       `json:"canvas_height"`
}

// CreateTableRequest - add one table at an explicit position
type CreateTableRequest struct {
	TableNumber int     `json:"table_number" binding:"required"`
	Capacity    int     `json:"capacity" binding:"required"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// CreateTablesBulkRequest - add n tables laid out on the default grid
type CreateTablesBulkRequest struct {
	Count    int `json:"count" binding:"required"`
	Capacity int `json:"capacity" binding:"required"`
}

type UpdateTableRequest struct {
	TableNumber *int     `json:"table_number,omitempty"`
	Capacity    *int     `json:"capacity,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
}

type CreateFixtureRequest struct {
	Kind  string `json:"kind" binding:"required"`
	Label string `json:"label,omitempty"`
}

type UpdateFixtureRequest struct {
	X        *float64 `json:"x,omitempty"`
	Y        *float64 `json:"y,omitempty"`
	Width    *float64 `json:"width,omitempty"`
	Height   *float64 `json:"height,omitempty"`
	Rotation *float64 `json:"rotation,omitempty"`
	Label    *string  `json:"label,omitempty"`
}

type AssignRequest struct {
	GuestID int64 `json:"guest_id" binding:"required"`
	TableID int64 `json:"table_id" binding:"required"`
	Force   bool  `json:"force,omitempty"`
}

type UnassignRequest struct {
	GuestID int64 `json:"guest_id" binding:"required"`
}

type AssignCategoryRequest struct {
	Category string `json:"category" binding:"required"`
	TableID  int64  `json:"table_id" binding:"required"`
}

// AssignResult is one entry of a bulk category assignment. Failures do not
// stop the batch; each guest carries its own outcome.
type AssignResult struct {
	GuestID int64  `json:"guest_id"`
	OK      bool   `json:"ok"`
	Error   string `json:"error,omitempty"`
}

type AssignCategoryResponse struct {
	Results []AssignResult `json:"results"`
}

// MoveRequest - drag step for a table or fixture, in screen pixels
type MoveRequest struct {
	Kind string  `json:"kind" binding:"required"` // "table" or "fixture"
	ID   int64   `json:"id" binding:"required"`
	DX   float64 `json:"dx"`
	DY   float64 `json:"dy"`
	Done bool    `json:"done,omitempty"`
}

type ResizeRequest struct {
	ID     int64   `json:"id" binding:"required"`
	Handle string  `json:"handle" binding:"required"`
	DX     float64 `json:"dx"`
	DY     float64 `json:"dy"`
	Shift  bool    `json:"shift,omitempty"`
	Done   bool    `json:"done,omitempty"`
}

type RotateRequest struct {
	ID   int64   `json:"id" binding:"required"`
	PX   float64 `json:"px"`
	PY   float64 `json:"py"`
	Done bool    `json:"done,omitempty"`
}

type ZoomRequest struct {
	Delta float64 `json:"delta"`
}

type ZoomResponse struct {
	Zoom float64 `json:"zoom"`
}

type PanRequest struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}
