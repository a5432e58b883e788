// Package placement lays fixtures out around the tables already on the
// canvas. The layout is deterministic: identical inputs always produce
// identical positions, and tables are never moved.
package placement

import (
	"math"
	"sort"

	"hallsync/internal/geometry"
	"hallsync/internal/models"
)

const (
	// Margin kept between a placed fixture and everything else.
	Margin = 60.0

	// GridStep is the scan resolution of the placement sweep.
	GridStep = 40.0

	MinCanvasWidth  = 1600.0
	MinCanvasHeight = 1000.0
)

// CanvasSize returns the working canvas extent: the minimum size grown to
// cover all content plus the margin.
func CanvasSize(tables []models.Table, fixtures []models.HallElement) (float64, float64) {
	w, h := MinCanvasWidth, MinCanvasHeight
	for _, t := range tables {
		w = math.Max(w, t.X+geometry.TableSize+Margin)
		h = math.Max(h, t.Y+geometry.TableSize+Margin)
	}
	for _, f := range fixtures {
		w = math.Max(w, f.X+f.Width+Margin)
		h = math.Max(h, f.Y+f.Height+Margin)
	}
	return w, h
}

func fixtureRect(f models.HallElement) geometry.Rect {
	return geometry.Rect{X: f.X, Y: f.Y, Width: f.Width, Height: f.Height}
}

// AutoLayout positions every fixture in the slice and returns a new slice;
// the input is not modified. Stage-family fixtures anchor the top of the
// hall first, then the rest sweep the canvas for the first free cell.
func AutoLayout(tables []models.Table, fixtures []models.HallElement) []models.HallElement {
	out := make([]models.HallElement, len(fixtures))
	copy(out, fixtures)

	order := make([]int, len(out))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := priorityOf(out[order[a]]), priorityOf(out[order[b]])
		return pa < pb
	})

	canvasW, canvasH := CanvasSize(tables, fixtures)

	blocked := make([]geometry.Rect, 0, len(tables)+len(out))
	for _, t := range tables {
		blocked = append(blocked, geometry.TableRect(t.X, t.Y))
	}

	stagePlaced := false
	for _, i := range order {
		f := &out[i]
		spec, ok := Spec(f.Kind)
		if f.Width <= 0 || f.Height <= 0 {
			if ok {
				f.Width, f.Height = spec.Width, spec.Height
			} else {
				f.Width, f.Height = 320, 160
			}
		}

		placed := false
		if ok && spec.Stage && !stagePlaced {
			// first stage-family fixture prefers the centered top slot,
			// but only when that slot is actually free
			stagePlaced = true
			x := math.Max(Margin, (canvasW-f.Width)/2)
			cand := geometry.Rect{X: x, Y: Margin, Width: f.Width, Height: f.Height}.Inflate(Margin)
			if clear(cand, blocked) {
				f.X, f.Y = x, Margin
				placed = true
			}
		}
		if !placed {
			x, y, extended := scan(f.Width, f.Height, canvasW, canvasH, blocked)
			f.X, f.Y = x, y
			if extended > canvasH {
				canvasH = extended
			}
		}
		blocked = append(blocked, fixtureRect(*f))
	}

	return out
}

func priorityOf(f models.HallElement) int {
	if s, ok := Spec(f.Kind); ok {
		return s.Priority
	}
	return 99
}

// scan sweeps the grid left-to-right, top-to-bottom and returns the first
// cell whose margin-inflated rect is clear. When the whole canvas is
// occupied it falls back to the bottom-right corner, extending the canvas
// bottom if even that collides. The third return is the new canvas height.
func scan(w, h, canvasW, canvasH float64, blocked []geometry.Rect) (float64, float64, float64) {
	for y := Margin; y+h+Margin <= canvasH; y += GridStep {
		for x := Margin; x+w+Margin <= canvasW; x += GridStep {
			cand := geometry.Rect{X: x, Y: y, Width: w, Height: h}.Inflate(Margin)
			if clear(cand, blocked) {
				return x, y, canvasH
			}
		}
	}

	x := math.Max(Margin, canvasW-w-Margin)
	y := math.Max(Margin, canvasH-h-Margin)
	cand := geometry.Rect{X: x, Y: y, Width: w, Height: h}
	if clear(cand, blocked) {
		return x, y, canvasH
	}

	// grow the canvas downward until the corner slot is free
	for {
		canvasH += GridStep
		y = canvasH - h - Margin
		cand = geometry.Rect{X: x, Y: y, Width: w, Height: h}
		if clear(cand, blocked) {
			return x, y, canvasH
		}
	}
}

func clear(cand geometry.Rect, blocked []geometry.Rect) bool {
	for _, b := range blocked {
		if geometry.Overlaps(cand, b) {
			return false
		}
	}
	return true
}

// PlaceOne finds a free spot for a single new fixture of the given size
// without moving anything already on the canvas.
func PlaceOne(tables []models.Table, fixtures []models.HallElement, w, h float64) (float64, float64) {
	canvasW, canvasH := CanvasSize(tables, fixtures)

	blocked := make([]geometry.Rect, 0, len(tables)+len(fixtures))
	for _, t := range tables {
		blocked = append(blocked, geometry.TableRect(t.X, t.Y))
	}
	for _, f := range fixtures {
		blocked = append(blocked, fixtureRect(f))
	}

	x, y, _ := scan(w, h, canvasW, canvasH, blocked)
	return x, y
}

// GridLayout positions n tables on a grid of square cells aligned to the
// scan step, ceil(sqrt(n)) columns wide.
func GridLayout(n int) []struct{ X, Y float64 } {
	out := make([]struct{ X, Y float64 }, 0, n)
	if n <= 0 {
		return out
	}
	cols := int(math.Ceil(math.Sqrt(float64(n))))
	pitch := geometry.TableSize + Margin
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols
		x := Margin + float64(col)*pitch
		y := Margin + float64(row)*pitch
		x = math.Round(x/GridStep) * GridStep
		y = math.Round(y/GridStep) * GridStep
		out = append(out, struct{ X, Y float64 }{x, y})
	}
	return out
}
