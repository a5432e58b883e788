package coordinator

import (
	"context"
	"fmt"

	apperrors "hallsync/internal/errors"
	"hallsync/internal/metrics"
	"hallsync/internal/models"
)

// Assign seats a guest at a table. The working copy is updated first
// (old seating removed, new one inserted under a temporary id), then the
// backend is reconciled: delete the old row, create the new one, swap the
// temporary id for the server id. Any backend failure restores the
// snapshot taken before the optimistic apply.
func (c *Coordinator) Assign(ctx context.Context, guestID, tableID int64, force bool) error {
	c.mu.Lock()
	if _, ok := c.guestLocked(guestID); !ok {
		c.mu.Unlock()
		return apperrors.Validation("guest_id", fmt.Sprintf("unknown guest %d", guestID))
	}
	table, ok := c.tableLocked(tableID)
	if !ok {
		c.mu.Unlock()
		return apperrors.Validation("table_id", fmt.Sprintf("unknown table %d", tableID))
	}
	if !force && c.occupiedLocked(tableID) >= table.Capacity {
		c.mu.Unlock()
		return apperrors.Validation("table_id", fmt.Sprintf("table %d is full", tableID))
	}

	snapshot := make([]models.Seating, len(c.seatings))
	copy(snapshot, c.seatings)

	old, hadOld := c.removeSeatingOfLocked(guestID)
	if hadOld && old.TableID == tableID {
		// already seated there; restore and treat as a no-op
		c.seatings = snapshot
		c.mu.Unlock()
		return nil
	}

	temp := models.Seating{
		ID:      models.NewTempID(),
		EventID: c.cfg.EventID,
		GuestID: guestID,
		TableID: tableID,
	}
	c.seatings = append(c.seatings, temp)
	c.mu.Unlock()
	c.notify()

	rollback := func() {
		c.mu.Lock()
		c.seatings = snapshot
		c.mu.Unlock()
		c.notify()
	}

	if hadOld {
		if err := c.deleteSeatingOnServer(ctx, old, guestID); err != nil {
			rollback()
			return err
		}
	}

	serverID, err := c.be.CreateSeating(ctx, temp)
	if err != nil {
		rollback()
		return err
	}

	c.mu.Lock()
	for i := range c.seatings {
		if c.seatings[i].ID == temp.ID {
			c.seatings[i].ID = models.ConfirmedID(serverID)
			break
		}
	}
	c.mu.Unlock()
	c.notify()

	c.log.Info("guest assigned", "guest_id", guestID, "table_id", tableID, "seating_id", serverID)
	return nil
}

// Unassign removes a guest's seating, optimistically and then on the
// server. A still-temporary id means the confirming response has not
// landed yet; the authoritative list is refetched to resolve it.
func (c *Coordinator) Unassign(ctx context.Context, guestID int64) error {
	c.mu.Lock()
	snapshot := make([]models.Seating, len(c.seatings))
	copy(snapshot, c.seatings)

	old, hadOld := c.removeSeatingOfLocked(guestID)
	c.mu.Unlock()

	if !hadOld {
		return apperrors.Validation("guest_id", fmt.Sprintf("guest %d has no seating", guestID))
	}
	c.notify()

	if err := c.deleteSeatingOnServer(ctx, old, guestID); err != nil {
		c.mu.Lock()
		c.seatings = snapshot
		c.mu.Unlock()
		c.notify()
		return err
	}

	c.log.Info("guest unassigned", "guest_id", guestID, "table_id", old.TableID)
	return nil
}

// AssignCategory seats every unseated guest of a category at the table,
// one by one. A failed guest does not stop the batch; each carries its
// own result.
func (c *Coordinator) AssignCategory(ctx context.Context, category string, tableID int64) []models.AssignResult {
	c.mu.Lock()
	var pending []int64
	for _, g := range c.guests {
		if g.Category != category {
			continue
		}
		if _, seated := c.seatingOfLocked(g.ID); seated {
			continue
		}
		pending = append(pending, g.ID)
	}
	c.mu.Unlock()

	results := make([]models.AssignResult, 0, len(pending))
	for _, guestID := range pending {
		res := models.AssignResult{GuestID: guestID, OK: true}
		if err := c.Assign(ctx, guestID, tableID, false); err != nil {
			res.OK = false
			res.Error = err.Error()
			c.log.Warn("category assignment failed for guest",
				"guest_id", guestID, "table_id", tableID, "error", err)
		}
		results = append(results, res)
	}
	return results
}

// deleteSeatingOnServer deletes one seating row, resolving a temporary id
// against a fresh authoritative list first. Drift that survives the
// refetch means the row never reached the server, which makes the delete
// a no-op.
func (c *Coordinator) deleteSeatingOnServer(ctx context.Context, s models.Seating, guestID int64) error {
	id, err := s.ID.Ref()
	if err != nil {
		metrics.ReconciliationDrift.Inc()
		c.log.Warn("resolving temporary seating id against server",
			"guest_id", guestID, "error", apperrors.ErrReconciliationDrift)

		authoritative, ferr := c.be.ListSeatings(ctx, c.cfg.EventID)
		if ferr != nil {
			return ferr
		}
		resolved := false
		for _, as := range authoritative {
			if as.GuestID == guestID {
				id, err = as.ID.Ref()
				if err != nil {
					return fmt.Errorf("authoritative seating list returned a temporary id: %w", apperrors.ErrReconciliationDrift)
				}
				resolved = true
				break
			}
		}
		if !resolved {
			return nil
		}
	}
	return c.be.DeleteSeating(ctx, id)
}

func (c *Coordinator) seatingOfLocked(guestID int64) (models.Seating, bool) {
	for _, s := range c.seatings {
		if s.GuestID == guestID {
			return s, true
		}
	}
	return models.Seating{}, false
}

func (c *Coordinator) removeSeatingOfLocked(guestID int64) (models.Seating, bool) {
	for i, s := range c.seatings {
		if s.GuestID == guestID {
			c.seatings = append(c.seatings[:i], c.seatings[i+1:]...)
			return s, true
		}
	}
	return models.Seating{}, false
}
