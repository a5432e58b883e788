// Package interaction runs the gesture state machines for the hall canvas:
// dragging tables and fixtures, resizing and rotating fixtures, and the
// viewport zoom/pan. One gesture is active at a time; pollers check Busy
// before refreshing so a refetch never yanks an entity mid-drag.
package interaction

import (
	"math"
	"sync"

	"hallsync/internal/errors"
	"hallsync/internal/geometry"
	"hallsync/internal/models"
)

const (
	minFixtureSide = 50.0

	// entrances and exits may shrink down to a doorway sliver
	minDoorWidth  = 5.0
	minDoorHeight = 15.0

	snapGrid = 5.0

	// X position a fixture snaps to when dropped on top of tables
	safeLeftX = 40.0
)

// Workspace is the slice of the working copy the controller mutates.
type Workspace interface {
	TablePos(id int64) (x, y float64, ok bool)
	SetTablePos(id int64, x, y float64)
	Fixture(id int64) (models.HallElement, bool)
	SetFixture(f models.HallElement)
	TableRects() []geometry.Rect
}

type dragState struct {
	kind   string
	id     int64
	startX float64
	startY float64
	zoom   float64
}

type resizeState struct {
	id    int64
	start geometry.Rect
	zoom  float64
	door  bool
}

type rotateState struct {
	id   int64
	cx   float64
	cy   float64
	grab float64
}

type Controller struct {
	mu sync.Mutex
	ws Workspace

	zoom float64
	panX float64
	panY float64

	drag   *dragState
	resize *resizeState
	rotate *rotateState
}

func NewController(ws Workspace) *Controller {
	return &Controller{ws: ws, zoom: 1.0}
}

// Busy reports whether any gesture is in flight.
func (c *Controller) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drag != nil || c.resize != nil || c.rotate != nil
}

// Viewport returns the current zoom and pan offsets.
func (c *Controller) Viewport() (zoom, panX, panY float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom, c.panX, c.panY
}

// Move applies a drag step. dx/dy are screen pixels accumulated since the
// gesture started; the first call for an entity begins the gesture and
// captures its position and the zoom. done=true commits and, for fixtures,
// nudges them off any table they were dropped on. Returns true when the
// commit changed state that needs saving.
func (c *Controller) Move(kind string, id int64, dx, dy float64, done bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.resize != nil || c.rotate != nil {
		return false, errors.Validation("gesture", "another gesture is active")
	}
	if kind != "table" && kind != "fixture" {
		return false, errors.Validation("kind", "must be table or fixture")
	}

	if c.drag == nil {
		sx, sy, ok := c.entityPos(kind, id)
		if !ok {
			return false, errors.Validation("id", "unknown entity")
		}
		c.drag = &dragState{kind: kind, id: id, startX: sx, startY: sy, zoom: c.zoom}
	}
	d := c.drag
	if d.kind != kind || d.id != id {
		return false, errors.Validation("gesture", "another entity is being dragged")
	}

	wx, wy := geometry.ToWorld(dx, dy, d.zoom)
	x := geometry.ClampCoord(d.startX + wx)
	y := geometry.ClampCoord(d.startY + wy)
	c.setEntityPos(kind, id, x, y)

	if !done {
		return false, nil
	}
	c.drag = nil
	if kind == "fixture" {
		c.nudgeOffTables(id)
	}
	return true, nil
}

// Resize applies a resize step on a fixture via one of the eight handles
// (n, s, e, w, ne, nw, se, sw). Shift snaps width and height to the 5 grid.
func (c *Controller) Resize(id int64, handle string, dx, dy float64, shift, done bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil || c.rotate != nil {
		return false, errors.Validation("gesture", "another gesture is active")
	}
	if !validHandle(handle) {
		return false, errors.Validation("handle", "unknown resize handle")
	}

	if c.resize == nil {
		f, ok := c.ws.Fixture(id)
		if !ok {
			return false, errors.Validation("id", "unknown fixture")
		}
		c.resize = &resizeState{
			id:    id,
			start: geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height},
			zoom:  c.zoom,
			door:  f.Kind == "entrance" || f.Kind == "exit",
		}
	}
	r := c.resize
	if r.id != id {
		return false, errors.Validation("gesture", "another fixture is being resized")
	}

	wx, wy := geometry.ToWorld(dx, dy, r.zoom)
	rect := applyHandle(r.start, handle, wx, wy)

	if shift {
		rect.Width = math.Round(rect.Width/snapGrid) * snapGrid
		rect.Height = math.Round(rect.Height/snapGrid) * snapGrid
	}

	minW, minH := minFixtureSide, minFixtureSide
	if r.door {
		minW, minH = minDoorWidth, minDoorHeight
	}
	if rect.Width < minW {
		// west-side handles move X; pin the east edge when clamping
		if handle == "w" || handle == "nw" || handle == "sw" {
			rect.X = r.start.Right() - minW
		}
		rect.Width = minW
	}
	if rect.Height < minH {
		if handle == "n" || handle == "ne" || handle == "nw" {
			rect.Y = r.start.Bottom() - minH
		}
		rect.Height = minH
	}

	f, _ := c.ws.Fixture(id)
	f.X, f.Y, f.Width, f.Height = rect.X, rect.Y, rect.Width, rect.Height
	c.ws.SetFixture(f)

	if !done {
		return false, nil
	}
	c.resize = nil
	return true, nil
}

// Rotate follows the pointer around the fixture center. The first call
// captures the grab angle so the fixture does not jump to the pointer;
// commit normalizes the stored angle into [0, 360).
func (c *Controller) Rotate(id int64, px, py float64, done bool) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.drag != nil || c.resize != nil {
		return false, errors.Validation("gesture", "another gesture is active")
	}

	if c.rotate == nil {
		f, ok := c.ws.Fixture(id)
		if !ok {
			return false, errors.Validation("id", "unknown fixture")
		}
		cx := f.X + f.Width/2
		cy := f.Y + f.Height/2
		pointer := math.Atan2(py-cy, px-cx) * 180 / math.Pi
		c.rotate = &rotateState{id: id, cx: cx, cy: cy, grab: pointer - f.Rotation}
	}
	r := c.rotate
	if r.id != id {
		return false, errors.Validation("gesture", "another fixture is being rotated")
	}

	pointer := math.Atan2(py-r.cy, px-r.cx) * 180 / math.Pi
	f, _ := c.ws.Fixture(id)
	f.Rotation = pointer - r.grab
	if done {
		f.Rotation = geometry.NormalizeAngle(f.Rotation)
	}
	c.ws.SetFixture(f)

	if !done {
		return false, nil
	}
	c.rotate = nil
	return true, nil
}

// ZoomBy multiplies the zoom by (1+delta) and clamps it. Ignored while a
// gesture is active so the captured gesture zoom stays meaningful.
func (c *Controller) ZoomBy(delta float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag != nil || c.resize != nil || c.rotate != nil {
		return c.zoom
	}
	c.zoom = geometry.ClampZoom(c.zoom * (1 + delta))
	return c.zoom
}

// PanBy shifts the viewport in screen space. Ignored mid-gesture.
func (c *Controller) PanBy(dx, dy float64) (float64, float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.drag != nil || c.resize != nil || c.rotate != nil {
		return c.panX, c.panY
	}
	c.panX += dx
	c.panY += dy
	return c.panX, c.panY
}

func (c *Controller) entityPos(kind string, id int64) (float64, float64, bool) {
	if kind == "table" {
		return c.ws.TablePos(id)
	}
	f, ok := c.ws.Fixture(id)
	return f.X, f.Y, ok
}

func (c *Controller) setEntityPos(kind string, id int64, x, y float64) {
	if kind == "table" {
		c.ws.SetTablePos(id, x, y)
		return
	}
	f, ok := c.ws.Fixture(id)
	if !ok {
		return
	}
	f.X, f.Y = x, y
	c.ws.SetFixture(f)
}

func (c *Controller) nudgeOffTables(id int64) {
	f, ok := c.ws.Fixture(id)
	if !ok {
		return
	}
	rect := geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
	for _, t := range c.ws.TableRects() {
		if geometry.Overlaps(rect, t) {
			f.X = safeLeftX
			c.ws.SetFixture(f)
			return
		}
	}
}

func validHandle(h string) bool {
	switch h {
	case "n", "s", "e", "w", "ne", "nw", "se", "sw":
		return true
	}
	return false
}

func applyHandle(start geometry.Rect, handle string, wx, wy float64) geometry.Rect {
	r := start
	switch handle {
	case "e":
		r.Width += wx
	case "w":
		r.X += wx
		r.Width -= wx
	case "s":
		r.Height += wy
	case "n":
		r.Y += wy
		r.Height -= wy
	case "se":
		r.Width += wx
		r.Height += wy
	case "sw":
		r.X += wx
		r.Width -= wx
		r.Height += wy
	case "ne":
		r.Width += wx
		r.Y += wy
		r.Height -= wy
	case "nw":
		r.X += wx
		r.Width -= wx
		r.Y += wy
		r.Height -= wy
	}
	return r
}
