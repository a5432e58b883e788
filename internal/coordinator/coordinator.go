// Package coordinator owns the in-memory working copy of one event's hall:
// tables, fixtures, seatings and guests. Commands mutate the copy first and
// reconcile with the backend after, rolling back on failure. Access is
// serialized by one mutex; across console clients the last writer wins.
package coordinator

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"hallsync/internal/backend"
	"hallsync/internal/geometry"
	"hallsync/internal/models"
	"hallsync/internal/occupancy"
	"hallsync/internal/placement"
)

// Backend is the slice of the backend client the coordinator uses.
type Backend interface {
	ListTables(ctx context.Context, eventID int64, hallType string) ([]models.Table, error)
	CreateTable(ctx context.Context, table models.Table) (models.Table, error)
	CreateTablesBulk(ctx context.Context, tables []models.Table) ([]models.Table, error)
	UpdateTable(ctx context.Context, table models.Table) error
	DeleteTable(ctx context.Context, id int64) error
	ListHallElements(ctx context.Context, eventID int64) ([]models.HallElement, error)
	CreateHallElement(ctx context.Context, el models.HallElement) (models.HallElement, error)
	UpdateHallElement(ctx context.Context, el models.HallElement) error
	DeleteHallElement(ctx context.Context, id int64) error
	ListSeatings(ctx context.Context, eventID int64) ([]models.Seating, error)
	CreateSeating(ctx context.Context, s models.Seating) (int64, error)
	DeleteSeating(ctx context.Context, id int64) error
	ListGuestsWithFields(ctx context.Context, eventID int64, fields []string) ([]models.Guest, error)
}

var _ Backend = (*backend.Client)(nil)

var afterFunc = time.AfterFunc

type Config struct {
	EventID  int64
	HallType string

	// Debounce windows for layout persistence.
	TableSaveDelay    time.Duration
	PositionSaveDelay time.Duration
}

type Coordinator struct {
	mu  sync.Mutex
	cfg Config
	be  Backend
	log *slog.Logger

	tables   []models.Table
	fixtures []models.HallElement
	seatings []models.Seating
	guests   []models.Guest

	// live occupancy pushed by the realtime feed, cleared on refresh
	occupancyOverride map[int64]int

	// last layout state confirmed by the backend, keyed per entity
	lastSavedTables    string
	lastSavedPositions string

	tableTimer    *time.Timer
	positionTimer *time.Timer

	// invoked after every committed change, outside the lock
	onChange func()
}

func New(cfg Config, be Backend, log *slog.Logger) *Coordinator {
	if cfg.TableSaveDelay == 0 {
		cfg.TableSaveDelay = 500 * time.Millisecond
	}
	if cfg.PositionSaveDelay == 0 {
		cfg.PositionSaveDelay = 2 * time.Second
	}
	return &Coordinator{
		cfg:               cfg,
		be:                be,
		log:               log,
		occupancyOverride: make(map[int64]int),
	}
}

// OnChange registers the callback fired after committed state changes.
func (c *Coordinator) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

func (c *Coordinator) notify() {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func (c *Coordinator) EventID() int64 { return c.cfg.EventID }

// Refresh replaces the working copy with the authoritative backend state.
func (c *Coordinator) Refresh(ctx context.Context) error {
	tables, err := c.be.ListTables(ctx, c.cfg.EventID, c.cfg.HallType)
	if err != nil {
		return err
	}
	fixtures, err := c.be.ListHallElements(ctx, c.cfg.EventID)
	if err != nil {
		return err
	}
	seatings, err := c.be.ListSeatings(ctx, c.cfg.EventID)
	if err != nil {
		return err
	}
	guests, err := c.be.ListGuestsWithFields(ctx, c.cfg.EventID,
		[]string{"id", "first_name", "last_name", "category", "arrived"})
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.tables = tables
	c.fixtures = fixtures
	c.seatings = seatings
	c.guests = guests
	c.occupancyOverride = make(map[int64]int)
	c.lastSavedTables = tablesKey(tables)
	c.lastSavedPositions = positionsKey(tables, fixtures)
	c.mu.Unlock()

	c.notify()
	return nil
}

// RefreshLayout refetches only tables and fixtures, used by the poller so a
// position change by another console shows up without touching seatings.
func (c *Coordinator) RefreshLayout(ctx context.Context) error {
	tables, err := c.be.ListTables(ctx, c.cfg.EventID, c.cfg.HallType)
	if err != nil {
		return err
	}
	fixtures, err := c.be.ListHallElements(ctx, c.cfg.EventID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.tables = tables
	c.fixtures = fixtures
	c.lastSavedTables = tablesKey(tables)
	c.lastSavedPositions = positionsKey(tables, fixtures)
	c.mu.Unlock()

	c.notify()
	return nil
}

// ApplyOccupancy patches one table's live occupancy from a feed event.
func (c *Coordinator) ApplyOccupancy(tableID int64, occupied int) {
	c.mu.Lock()
	c.occupancyOverride[tableID] = occupied
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) occupiedLocked(tableID int64) int {
	if n, ok := c.occupancyOverride[tableID]; ok {
		return n
	}
	n := 0
	for _, s := range c.seatings {
		if s.TableID == tableID {
			n++
		}
	}
	return n
}

func (c *Coordinator) guestLocked(id int64) (models.Guest, bool) {
	for _, g := range c.guests {
		if g.ID == id {
			return g, true
		}
	}
	return models.Guest{}, false
}

func (c *Coordinator) tableLocked(id int64) (models.Table, bool) {
	for _, t := range c.tables {
		if t.ID == id {
			return t, true
		}
	}
	return models.Table{}, false
}

// TableViews projects the working copy into console view models.
func (c *Coordinator) TableViews() []models.TableView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tableViewsLocked()
}

func (c *Coordinator) tableViewsLocked() []models.TableView {
	views := make([]models.TableView, 0, len(c.tables))
	for _, t := range c.tables {
		occ := c.occupiedLocked(t.ID)
		view := models.TableView{
			ID:                  t.ID,
			TableNumber:         t.TableNumber,
			Capacity:            t.Capacity,
			X:                   t.X,
			Y:                   t.Y,
			OccupiedSeats:       occ,
			OccupancyPercentage: occupancy.Percentage(occ, t.Capacity),
			Status:              string(occupancy.Classify(occ, t.Capacity)),
		}
		for _, s := range c.seatings {
			if s.TableID != t.ID {
				continue
			}
			if g, ok := c.guestLocked(s.GuestID); ok {
				view.Guests = append(view.Guests, g)
			}
		}
		views = append(views, view)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].TableNumber < views[j].TableNumber })
	return views
}

// State renders the full snapshot, viewport fields filled by the caller.
func (c *Coordinator) State() models.StateView {
	c.mu.Lock()
	defer c.mu.Unlock()

	fixtures := make([]models.HallElement, len(c.fixtures))
	copy(fixtures, c.fixtures)
	seatings := make([]models.Seating, len(c.seatings))
	copy(seatings, c.seatings)

	w, h := placement.CanvasSize(c.tables, c.fixtures)
	return models.StateView{
		Tables:       c.tableViewsLocked(),
		HallElements: fixtures,
		Seatings:     seatings,
		CanvasWidth:  w,
		CanvasHeight: h,
	}
}

func (c *Coordinator) Fixtures() []models.HallElement {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.HallElement, len(c.fixtures))
	copy(out, c.fixtures)
	return out
}

func (c *Coordinator) Guests() []models.Guest {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Guest, len(c.guests))
	copy(out, c.guests)
	return out
}

// interaction.Workspace implementation

func (c *Coordinator) TablePos(id int64) (float64, float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	t, ok := c.tableLocked(id)
	return t.X, t.Y, ok
}

func (c *Coordinator) SetTablePos(id int64, x, y float64) {
	c.mu.Lock()
	for i := range c.tables {
		if c.tables[i].ID == id {
			c.tables[i].X, c.tables[i].Y = x, y
			break
		}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) Fixture(id int64) (models.HallElement, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range c.fixtures {
		if f.ID == id {
			return f, true
		}
	}
	return models.HallElement{}, false
}

func (c *Coordinator) SetFixture(f models.HallElement) {
	c.mu.Lock()
	for i := range c.fixtures {
		if c.fixtures[i].ID == f.ID {
			c.fixtures[i] = f
			break
		}
	}
	c.mu.Unlock()
	c.notify()
}

func (c *Coordinator) TableRects() []geometry.Rect {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]geometry.Rect, 0, len(c.tables))
	for _, t := range c.tables {
		out = append(out, geometry.TableRect(t.X, t.Y))
	}
	return out
}
