package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	apperrors "hallsync/internal/errors"
	"hallsync/internal/models"
	"hallsync/internal/placement"
)

// AddTable creates a table on the backend and inserts it into the copy.
func (c *Coordinator) AddTable(ctx context.Context, req models.CreateTableRequest) (models.Table, error) {
	if req.Capacity <= 0 {
		return models.Table{}, apperrors.Validation("capacity", "must be positive")
	}

	table := models.Table{
		EventID:     c.cfg.EventID,
		TableNumber: req.TableNumber,
		Capacity:    req.Capacity,
		X:           req.X,
		Y:           req.Y,
		HallType:    c.cfg.HallType,
	}
	created, err := c.be.CreateTable(ctx, table)
	if err != nil {
		return models.Table{}, err
	}

	c.mu.Lock()
	c.tables = append(c.tables, created)
	c.mu.Unlock()
	c.notify()
	return created, nil
}

// AddTablesBulk creates n tables laid out on the default grid, numbered
// after the highest existing table number.
func (c *Coordinator) AddTablesBulk(ctx context.Context, count, capacity int) ([]models.Table, error) {
	if count <= 0 || count > 200 {
		return nil, apperrors.Validation("count", "must be between 1 and 200")
	}
	if capacity <= 0 {
		return nil, apperrors.Validation("capacity", "must be positive")
	}

	c.mu.Lock()
	next := 1
	for _, t := range c.tables {
		if t.TableNumber >= next {
			next = t.TableNumber + 1
		}
	}
	c.mu.Unlock()

	positions := placement.GridLayout(count)
	batch := make([]models.Table, 0, count)
	for i, p := range positions {
		batch = append(batch, models.Table{
			EventID:     c.cfg.EventID,
			TableNumber: next + i,
			Capacity:    capacity,
			X:           p.X,
			Y:           p.Y,
			HallType:    c.cfg.HallType,
		})
	}

	created, err := c.be.CreateTablesBulk(ctx, batch)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.tables = append(c.tables, created...)
	c.mu.Unlock()
	c.notify()
	return created, nil
}

// UpdateTableMeta applies a table config edit to the copy and schedules the
// debounced save; rapid edits coalesce into one backend write.
func (c *Coordinator) UpdateTableMeta(ctx context.Context, id int64, req models.UpdateTableRequest) error {
	c.mu.Lock()
	table, ok := c.tableLocked(id)
	c.mu.Unlock()
	if !ok {
		return apperrors.Validation("id", fmt.Sprintf("unknown table %d", id))
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.Capacity != nil {
		if *req.Capacity <= 0 {
			return apperrors.Validation("capacity", "must be positive")
		}
		table.Capacity = *req.Capacity
	}
	if req.X != nil {
		table.X = *req.X
	}
	if req.Y != nil {
		table.Y = *req.Y
	}

	c.mu.Lock()
	for i := range c.tables {
		if c.tables[i].ID == id {
			c.tables[i] = table
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	c.SaveTablesSoon()
	return nil
}

// RemoveTable deletes a table and drops its seatings from the copy; the
// backend cascades its own rows.
func (c *Coordinator) RemoveTable(ctx context.Context, id int64) error {
	if err := c.be.DeleteTable(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.tables {
		if c.tables[i].ID == id {
			c.tables = append(c.tables[:i], c.tables[i+1:]...)
			break
		}
	}
	kept := c.seatings[:0]
	for _, s := range c.seatings {
		if s.TableID != id {
			kept = append(kept, s)
		}
	}
	c.seatings = kept
	delete(c.occupancyOverride, id)
	c.mu.Unlock()
	c.notify()
	return nil
}

// AddFixture creates a fixture of a catalog kind at the first free spot.
func (c *Coordinator) AddFixture(ctx context.Context, kind, label string) (models.HallElement, error) {
	spec, ok := placement.Spec(kind)
	if !ok {
		return models.HallElement{}, apperrors.Validation("kind", fmt.Sprintf("unknown fixture kind %q", kind))
	}

	c.mu.Lock()
	x, y := placement.PlaceOne(c.tables, c.fixtures, spec.Width, spec.Height)
	c.mu.Unlock()

	el := models.HallElement{
		EventID: c.cfg.EventID,
		Kind:    kind,
		Label:   label,
		X:       x,
		Y:       y,
		Width:   spec.Width,
		Height:  spec.Height,
	}
	created, err := c.be.CreateHallElement(ctx, el)
	if err != nil {
		return models.HallElement{}, err
	}

	c.mu.Lock()
	c.fixtures = append(c.fixtures, created)
	c.mu.Unlock()
	c.notify()
	return created, nil
}

func (c *Coordinator) UpdateFixtureMeta(ctx context.Context, id int64, req models.UpdateFixtureRequest) error {
	c.mu.Lock()
	var el models.HallElement
	found := false
	for _, f := range c.fixtures {
		if f.ID == id {
			el, found = f, true
			break
		}
	}
	c.mu.Unlock()
	if !found {
		return apperrors.Validation("id", fmt.Sprintf("unknown fixture %d", id))
	}

	if req.X != nil {
		el.X = *req.X
	}
	if req.Y != nil {
		el.Y = *req.Y
	}
	if req.Width != nil {
		if *req.Width <= 0 {
			return apperrors.Validation("width", "must be positive")
		}
		el.Width = *req.Width
	}
	if req.Height != nil {
		if *req.Height <= 0 {
			return apperrors.Validation("height", "must be positive")
		}
		el.Height = *req.Height
	}
	if req.Rotation != nil {
		el.Rotation = *req.Rotation
	}
	if req.Label != nil {
		el.Label = *req.Label
	}

	if err := c.be.UpdateHallElement(ctx, el); err != nil {
		return err
	}

	c.SetFixture(el)
	return nil
}

func (c *Coordinator) RemoveFixture(ctx context.Context, id int64) error {
	if err := c.be.DeleteHallElement(ctx, id); err != nil {
		return err
	}

	c.mu.Lock()
	for i := range c.fixtures {
		if c.fixtures[i].ID == id {
			c.fixtures = append(c.fixtures[:i], c.fixtures[i+1:]...)
			break
		}
	}
	c.mu.Unlock()
	c.notify()
	return nil
}

// AutoLayoutFixtures recomputes fixture positions around the tables and
// schedules the position save.
func (c *Coordinator) AutoLayoutFixtures() []models.HallElement {
	c.mu.Lock()
	c.fixtures = placement.AutoLayout(c.tables, c.fixtures)
	out := make([]models.HallElement, len(c.fixtures))
	copy(out, c.fixtures)
	c.mu.Unlock()

	c.notify()
	c.SavePositionsSoon()
	return out
}

// SaveTablesSoon schedules a debounced save of table configuration. A new
// call supersedes the pending timer.
func (c *Coordinator) SaveTablesSoon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tableTimer != nil {
		c.tableTimer.Stop()
	}
	c.tableTimer = afterFunc(c.cfg.TableSaveDelay, func() {
		if err := c.flushTables(context.Background()); err != nil {
			c.log.Error("table save failed", "error", err)
		}
	})
}

// SavePositionsSoon schedules a debounced save of every table and fixture
// position.
func (c *Coordinator) SavePositionsSoon() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.positionTimer != nil {
		c.positionTimer.Stop()
	}
	c.positionTimer = afterFunc(c.cfg.PositionSaveDelay, func() {
		if err := c.flushPositions(context.Background()); err != nil {
			c.log.Error("position save failed", "error", err)
		}
	})
}

// FlushPendingSaves persists immediately, used on shutdown.
func (c *Coordinator) FlushPendingSaves(ctx context.Context) error {
	c.mu.Lock()
	if c.tableTimer != nil {
		c.tableTimer.Stop()
		c.tableTimer = nil
	}
	if c.positionTimer != nil {
		c.positionTimer.Stop()
		c.positionTimer = nil
	}
	c.mu.Unlock()

	if err := c.flushTables(ctx); err != nil {
		return err
	}
	return c.flushPositions(ctx)
}

func (c *Coordinator) flushTables(ctx context.Context) error {
	c.mu.Lock()
	tables := make([]models.Table, len(c.tables))
	copy(tables, c.tables)
	key := tablesKey(tables)
	unchanged := key == c.lastSavedTables
	c.mu.Unlock()

	if unchanged {
		return nil
	}
	for _, t := range tables {
		if err := c.be.UpdateTable(ctx, t); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.lastSavedTables = key
	c.mu.Unlock()
	return nil
}

func (c *Coordinator) flushPositions(ctx context.Context) error {
	c.mu.Lock()
	tables := make([]models.Table, len(c.tables))
	copy(tables, c.tables)
	fixtures := make([]models.HallElement, len(c.fixtures))
	copy(fixtures, c.fixtures)
	key := positionsKey(tables, fixtures)
	unchanged := key == c.lastSavedPositions
	c.mu.Unlock()

	if unchanged {
		return nil
	}
	for _, t := range tables {
		if err := c.be.UpdateTable(ctx, t); err != nil {
			return err
		}
	}
	for _, f := range fixtures {
		if err := c.be.UpdateHallElement(ctx, f); err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.lastSavedPositions = key
	c.mu.Unlock()
	return nil
}

// tablesKey reduces table config to a stable comparison key so identical
// layouts never hit the backend twice.
func tablesKey(tables []models.Table) string {
	type entry struct {
		ID       int64   `json:"id"`
		Number   int     `json:"n"`
		Capacity int     `json:"c"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
	}
	entries := make([]entry, 0, len(tables))
	for _, t := range tables {
		entries = append(entries, entry{t.ID, t.TableNumber, t.Capacity, t.X, t.Y})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	raw, _ := json.Marshal(entries)
	return string(raw)
}

func positionsKey(tables []models.Table, fixtures []models.HallElement) string {
	type entry struct {
		Kind     string  `json:"k"`
		ID       int64   `json:"id"`
		X        float64 `json:"x"`
		Y        float64 `json:"y"`
		W        float64 `json:"w"`
		H        float64 `json:"h"`
		Rotation float64 `json:"r"`
	}
	entries := make([]entry, 0, len(tables)+len(fixtures))
	for _, t := range tables {
		entries = append(entries, entry{Kind: "t", ID: t.ID, X: t.X, Y: t.Y})
	}
	for _, f := range fixtures {
		entries = append(entries, entry{Kind: "f", ID: f.ID, X: f.X, Y: f.Y, W: f.Width, H: f.Height, Rotation: f.Rotation})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].ID < entries[j].ID
	})
	raw, _ := json.Marshal(entries)
	return string(raw)
}
