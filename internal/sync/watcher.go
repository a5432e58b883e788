// Package sync keeps the working copy aligned with the backend: a
// websocket watcher consumes the live feed, pollers reconcile on an
// interval, and a hub fans changes out to connected consoles.
package sync

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"hallsync/internal/models"
)

// Dialer opens the backend feed connection.
type Dialer interface {
	DialRealtime(ctx context.Context, eventID int64) (*websocket.Conn, error)
}

// StateSink receives the effects of feed events.
type StateSink interface {
	ApplyOccupancy(tableID int64, occupied int)
	Refresh(ctx context.Context) error
}

type Watcher struct {
	eventID int64
	dialer  Dialer
	state   StateSink
	center  *Center
	log     *slog.Logger

	// reconnect backoff bounds
	minBackoff time.Duration
	maxBackoff time.Duration
}

func NewWatcher(eventID int64, dialer Dialer, state StateSink, center *Center, log *slog.Logger) *Watcher {
	return &Watcher{
		eventID:    eventID,
		dialer:     dialer,
		state:      state,
		center:     center,
		log:        log,
		minBackoff: time.Second,
		maxBackoff: 30 * time.Second,
	}
}

// Run consumes the feed until the context is canceled, redialing with
// exponential backoff after a drop.
func (w *Watcher) Run(ctx context.Context) {
	backoff := w.minBackoff
	for {
		conn, err := w.dialer.DialRealtime(ctx, w.eventID)
		if err != nil {
			w.log.Warn("realtime dial failed", "error", err, "retry_in", backoff)
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, w.maxBackoff)
			continue
		}

		w.log.Info("realtime feed connected", "event_id", w.eventID)
		backoff = w.minBackoff

		if err := w.consume(ctx, conn); err != nil {
			w.log.Warn("realtime feed dropped", "error", err)
		}
		conn.Close()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

func (w *Watcher) consume(ctx context.Context, conn *websocket.Conn) error {
	// unblock ReadMessage when the context goes away
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var ev models.RealtimeEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			w.log.Warn("unparseable feed frame", "error", err)
			continue
		}
		w.Dispatch(ctx, ev)
	}
}

// Dispatch applies one feed event: table events patch occupancy in place,
// guest arrivals re-derive the view from the backend.
func (w *Watcher) Dispatch(ctx context.Context, ev models.RealtimeEvent) {
	switch ev.Type {
	case models.EventTableFull, models.EventTableAlmostFull, models.EventTableOverbooked:
		if ev.Table == nil {
			w.log.Warn("table event without a table payload", "type", ev.Type)
			return
		}
		w.state.ApplyOccupancy(ev.Table.ID, ev.Table.OccupiedSeats)
		w.center.AddFromEvent(ev)

	case models.EventGuestArrived, models.EventGuestArrivedNoSeat:
		if err := w.state.Refresh(ctx); err != nil {
			w.log.Error("refresh after guest arrival failed", "error", err)
		}
		w.center.AddFromEvent(ev)

	default:
		w.log.Debug("ignoring feed event", "type", ev.Type)
	}
}
