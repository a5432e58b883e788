package sync

import (
	"context"
	"log/slog"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hallsync/internal/models"
)

type fakeNotificationBackend struct {
	mu      stdsync.Mutex
	rows    []models.Notification
	readIDs []int64
	listErr error
}

func (f *fakeNotificationBackend) ListNotifications(_ context.Context, _ int64) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Notification, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeNotificationBackend) MarkNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readIDs = append(f.readIDs, id)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestCenterPersistentStaysUntilRead(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	c.AddFromEvent(models.RealtimeEvent{
		Type:  models.EventGuestArrivedNoSeat,
		Guest: &models.RealtimeGuest{ID: 10, FirstName: "Dana", LastName: "Levi"},
	})

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "Dana Levi arrived without a seat", list[0].Message)
	assert.Negative(t, list[0].ID)

	require.NoError(t, c.MarkRead(context.Background(), list[0].ID))
	assert.Empty(t, c.List())
	// feed-born entries are local, nothing to acknowledge server-side
	assert.Empty(t, fb.readIDs)
}

func TestCenterTransientExpires(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	c.AddFromEvent(models.RealtimeEvent{
		Type:  models.EventGuestArrived,
		Guest: &models.RealtimeGuest{ID: 10, FirstName: "Dana", LastName: "Levi"},
	})

	require.Len(t, c.List(), 1)

	// force the expiry instead of sleeping three seconds
	c.mu.Lock()
	for _, item := range c.items {
		item.expiresAt = time.Now().Add(-time.Millisecond)
	}
	c.mu.Unlock()

	assert.Empty(t, c.List())
}

func TestCenterExpiredServerRowNotReannounced(t *testing.T) {
	fb := &fakeNotificationBackend{
		rows: []models.Notification{{
			ID:        7,
			Type:      models.EventTableAlmostFull,
			Message:   "table 3 is almost full",
			CreatedAt: time.Now().Add(-time.Minute),
		}},
	}
	c := NewCenter(42, fb, testLogger())

	var announced int
	c.OnChange(func(models.Notification) { announced++ })

	for i := 0; i < 3; i++ {
		require.NoError(t, c.Poll(context.Background()))
		assert.Empty(t, c.List())
	}

	assert.Equal(t, 1, announced)

	// pruning acknowledges the server row
	require.Eventually(t, func() bool {
		fb.mu.Lock()
		defer fb.mu.Unlock()
		return len(fb.readIDs) > 0 && fb.readIDs[0] == 7
	}, time.Second, 10*time.Millisecond)
}

func TestCenterMergeFirstSeenWins(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	first := models.Notification{ID: 7, Type: models.EventTableFull, Message: "table 3 is full", CreatedAt: time.Now()}
	c.MergeServer([]models.Notification{first})

	changed := first
	changed.Message = "rewritten"
	c.MergeServer([]models.Notification{changed})

	list := c.List()
	require.Len(t, list, 1)
	assert.Equal(t, "table 3 is full", list[0].Message)
}

func TestCenterMergeDropsReadRows(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	row := models.Notification{ID: 7, Type: models.EventTableFull, CreatedAt: time.Now()}
	c.MergeServer([]models.Notification{row})
	require.Len(t, c.List(), 1)

	row.Read = true
	c.MergeServer([]models.Notification{row})
	assert.Empty(t, c.List())
}

func TestCenterMarkReadServerRow(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	c.MergeServer([]models.Notification{{ID: 7, Type: models.EventTableFull, CreatedAt: time.Now()}})
	require.NoError(t, c.MarkRead(context.Background(), 7))

	assert.Equal(t, []int64{7}, fb.readIDs)
	assert.Empty(t, c.List())
}

func TestCenterOnChangeFires(t *testing.T) {
	fb := &fakeNotificationBackend{}
	c := NewCenter(42, fb, testLogger())

	var got []models.Notification
	c.OnChange(func(n models.Notification) { got = append(got, n) })

	c.AddFromEvent(models.RealtimeEvent{
		Type:  models.EventTableOverbooked,
		Table: &models.RealtimeTable{ID: 3, TableNumber: 3, OccupiedSeats: 12, TotalSeats: 10},
	})
	c.MergeServer([]models.Notification{{ID: 7, Type: models.EventTableFull, CreatedAt: time.Now()}})

	require.Len(t, got, 2)
	assert.Equal(t, "table 3 is overbooked", got[0].Message)
}

type fakeState struct {
	mu        stdsync.Mutex
	occupancy map[int64]int
	refreshed int
}

func (f *fakeState) ApplyOccupancy(tableID int64, occupied int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.occupancy == nil {
		f.occupancy = make(map[int64]int)
	}
	f.occupancy[tableID] = occupied
}

func (f *fakeState) Refresh(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed++
	return nil
}

func TestWatcherDispatchTableEvent(t *testing.T) {
	state := &fakeState{}
	center := NewCenter(42, &fakeNotificationBackend{}, testLogger())
	w := NewWatcher(42, nil, state, center, testLogger())

	w.Dispatch(context.Background(), models.RealtimeEvent{
		Type:  models.EventTableFull,
		Table: &models.RealtimeTable{ID: 5, TableNumber: 5, OccupiedSeats: 10, TotalSeats: 10},
	})

	assert.Equal(t, 10, state.occupancy[5])
	assert.Equal(t, 0, state.refreshed)
	require.Len(t, center.List(), 1)
}

func TestWatcherDispatchGuestArrivedRefreshes(t *testing.T) {
	state := &fakeState{}
	center := NewCenter(42, &fakeNotificationBackend{}, testLogger())
	w := NewWatcher(42, nil, state, center, testLogger())

	w.Dispatch(context.Background(), models.RealtimeEvent{
		Type:  models.EventGuestArrived,
		Guest: &models.RealtimeGuest{ID: 10, FirstName: "Dana", LastName: "Levi"},
	})

	assert.Equal(t, 1, state.refreshed)
	require.Len(t, center.List(), 1)
}

func TestWatcherDispatchIgnoresMalformedTableEvent(t *testing.T) {
	state := &fakeState{}
	center := NewCenter(42, &fakeNotificationBackend{}, testLogger())
	w := NewWatcher(42, nil, state, center, testLogger())

	w.Dispatch(context.Background(), models.RealtimeEvent{Type: models.EventTableFull})
	assert.Empty(t, state.occupancy)
	assert.Empty(t, center.List())
}

type fakeLayout struct {
	mu    stdsync.Mutex
	calls int
}

func (f *fakeLayout) RefreshLayout(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return nil
}

func TestPollerSkipsWhileBusy(t *testing.T) {
	layout := &fakeLayout{}
	center := NewCenter(42, &fakeNotificationBackend{}, testLogger())

	busy := true
	p := NewPoller(time.Second, layout, center, func() bool { return busy }, testLogger())

	p.Tick(context.Background())
	assert.Equal(t, 0, layout.calls)

	busy = false
	p.Tick(context.Background())
	assert.Equal(t, 1, layout.calls)
}

func TestPollerMergesServerNotifications(t *testing.T) {
	layout := &fakeLayout{}
	fb := &fakeNotificationBackend{rows: []models.Notification{
		{ID: 7, Type: models.EventTableFull, CreatedAt: time.Now()},
	}}
	center := NewCenter(42, fb, testLogger())
	p := NewPoller(time.Second, layout, center, nil, testLogger())

	p.Tick(context.Background())
	assert.Len(t, center.List(), 1)
}
