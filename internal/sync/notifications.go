package sync

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	stdsync "sync"
	"time"

	"hallsync/internal/models"
)

const (
	arrivedSeatedTTL = 3 * time.Second
	almostFullTTL    = 15 * time.Second
)

// NotificationBackend is the slice of the backend client the center needs.
type NotificationBackend interface {
	ListNotifications(ctx context.Context, eventID int64) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id int64) error
}

type centerItem struct {
	n         models.Notification
	expiresAt time.Time // zero for persistent entries
}

// Center holds the console's notification tray. Persistent kinds stay until
// marked read; transient kinds expire on their own. Entries arriving both
// over the feed and the poll are merged by server id, first seen wins.
type Center struct {
	mu      stdsync.Mutex
	eventID int64
	be      NotificationBackend
	log     *slog.Logger

	items     map[int64]*centerItem
	dismissed map[int64]struct{}
	localID   int64

	onChange func(models.Notification)
}

func NewCenter(eventID int64, be NotificationBackend, log *slog.Logger) *Center {
	return &Center{
		eventID:   eventID,
		be:        be,
		log:       log,
		items:     make(map[int64]*centerItem),
		dismissed: make(map[int64]struct{}),
	}
}

// OnChange registers the callback fired when a new entry lands.
func (c *Center) OnChange(fn func(models.Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// ttlFor returns the lifetime of a notification kind; ok=false means the
// entry is persistent.
func ttlFor(eventType string) (time.Duration, bool) {
	switch eventType {
	case models.EventGuestArrived:
		return arrivedSeatedTTL, true
	case models.EventTableAlmostFull:
		return almostFullTTL, true
	default:
		return 0, false
	}
}

// AddFromEvent turns a feed frame into a tray entry. Feed-born entries get
// negative local ids so they never collide with server rows.
func (c *Center) AddFromEvent(ev models.RealtimeEvent) {
	n := models.Notification{
		EventID:   c.eventID,
		Type:      ev.Type,
		Message:   messageFor(ev),
		CreatedAt: time.Now(),
	}
	if ev.Guest != nil {
		n.GuestID = ev.Guest.ID
	}
	if ev.Table != nil {
		n.TableID = ev.Table.ID
	}

	c.mu.Lock()
	c.localID--
	n.ID = c.localID
	item := &centerItem{n: n}
	if ttl, transient := ttlFor(ev.Type); transient {
		item.expiresAt = time.Now().Add(ttl)
	}
	c.items[n.ID] = item
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(n)
	}
}

// MergeServer folds poll results into the tray. Known ids keep their first
// seen entry; read rows are dropped.
func (c *Center) MergeServer(server []models.Notification) {
	var added []models.Notification

	c.mu.Lock()
	for _, n := range server {
		if n.Read {
			delete(c.items, n.ID)
			delete(c.dismissed, n.ID)
			continue
		}
		if _, gone := c.dismissed[n.ID]; gone {
			// expired locally, the read acknowledgement may still be in flight
			continue
		}
		if _, ok := c.items[n.ID]; ok {
			continue
		}
		item := &centerItem{n: n}
		if ttl, transient := ttlFor(n.Type); transient {
			item.expiresAt = n.CreatedAt.Add(ttl)
		}
		c.items[n.ID] = item
		added = append(added, n)
	}
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		for _, n := range added {
			fn(n)
		}
	}
}

// List returns live entries, newest first. Expired transients are pruned
// on the way out; expired server rows are acknowledged so the next poll
// does not re-announce them.
func (c *Center) List() []models.Notification {
	now := time.Now()

	c.mu.Lock()
	out := make([]models.Notification, 0, len(c.items))
	var expired []int64
	for id, item := range c.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(c.items, id)
			if id > 0 {
				c.dismissed[id] = struct{}{}
				expired = append(expired, id)
			}
			continue
		}
		out = append(out, item.n)
	}
	c.mu.Unlock()

	for _, id := range expired {
		go c.ackExpired(id)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// MarkRead acknowledges one entry. Server-backed rows are marked on the
// backend first; feed-born rows (negative ids) just leave the tray.
func (c *Center) MarkRead(ctx context.Context, id int64) error {
	if id > 0 {
		if err := c.be.MarkNotificationRead(ctx, id); err != nil {
			return err
		}
	}

	c.mu.Lock()
	delete(c.items, id)
	delete(c.dismissed, id)
	c.mu.Unlock()
	return nil
}

func (c *Center) ackExpired(id int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.be.MarkNotificationRead(ctx, id); err != nil {
		c.log.Warn("mark expired notification read", "id", id, "error", err)
	}
}

// Poll fetches the server rows once and merges them.
func (c *Center) Poll(ctx context.Context) error {
	server, err := c.be.ListNotifications(ctx, c.eventID)
	if err != nil {
		return err
	}
	c.MergeServer(server)
	return nil
}

func messageFor(ev models.RealtimeEvent) string {
	guest := ""
	if ev.Guest != nil {
		guest = ev.Guest.FirstName + " " + ev.Guest.LastName
	}
	switch ev.Type {
	case models.EventGuestArrived:
		return fmt.Sprintf("%s arrived", guest)
	case models.EventGuestArrivedNoSeat:
		return fmt.Sprintf("%s arrived without a seat", guest)
	case models.EventTableFull:
		if ev.Table != nil {
			return fmt.Sprintf("table %d is full", ev.Table.TableNumber)
		}
	case models.EventTableAlmostFull:
		if ev.Table != nil {
			return fmt.Sprintf("table %d is almost full", ev.Table.TableNumber)
		}
	case models.EventTableOverbooked:
		if ev.Table != nil {
			return fmt.Sprintf("table %d is overbooked", ev.Table.TableNumber)
		}
	}
	return ev.Type
}
