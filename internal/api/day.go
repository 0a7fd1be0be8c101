package api

import (
	"time"

	"task-timer/internal/domain"
	"task-timer/internal/services"
)

// midnight returns the start of now's day in now's location.
func midnight(now time.Time) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
}

// rollover closes the current day and moves every task onto the day of
// now. Time a session ran before midnight stays with the old day; the
// remainder counts for the new one. If the gap spans several days, the
// skipped days are attributed to the old day.
func (t *Tracker) rollover(now time.Time) {
	oldDay := t.today
	newDay := domain.DateOf(now)
	boundary := midnight(now)

	for _, name := range t.order {
		task := t.tasks[name]
		status := domain.StatusPaused
		if task.IsRunning() {
			status = domain.StatusRunning
		}
		s := services.Snapshot{
			Name:   name,
			Date:   oldDay,
			Total:  task.ElapsedSeconds(boundary),
			Status: status,
		}
		if err := t.record(s); err != nil {
			t.pending = append(t.pending, s)
			t.logger.Error("closing day snapshot failed, will retry", "task", name, "date", oldDay, "error", err)
		}
		task.Rebase(boundary)
	}

	t.today = newDay
	t.lastSnapshot = now

	ctx, cancel := t.storeContext()
	defer cancel()
	for _, name := range t.order {
		task := t.tasks[name]
		if _, err := t.ledger.RecordCreation(ctx, name, newDay); err != nil {
			t.logger.Error("failed to create day marker", "task", name, "date", newDay, "error", err)
		}
		total, err := t.ledger.TotalFor(ctx, name, newDay)
		if err != nil {
			// the ledger seeds itself on the next snapshot
			t.logger.Error("failed to load new day total", "task", name, "date", newDay, "error", err)
			total = 0
		} else {
			t.ledger.Seed(name, newDay, total)
		}
		task.SetManualTime(time.Duration(total) * time.Second)
	}
	t.forgetDay(oldDay)

	t.logger.Info("day rolled over", "from", oldDay, "to", newDay, "tasks", len(t.order))
}

// forgetDay drops ledger bookkeeping for a closed day once nothing for it
// is pending.
func (t *Tracker) forgetDay(date string) {
	for _, s := range t.pending {
		if s.Date == date {
			return
		}
	}
	t.ledger.Forget(date)
}
