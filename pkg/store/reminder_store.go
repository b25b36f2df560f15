package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/penlet/reminders/pkg/models"
)

// TriggerWindow is how far from its nominal time an alarm may still fire.
// The absolute-value window means an alarm whose time passed between two
// evaluation ticks still rings, but a stale alarm from hours ago does not.
const TriggerWindow = time.Minute

// ReminderStore owns all transient reminder state: the latest alarm
// snapshot from the portal, the list of currently ringing entries, and the
// set of alarms the user closed locally without telling the server.
// Nothing in here survives a restart.
type ReminderStore struct {
	mu sync.RWMutex

	// Latest successful fetch, keyed by alarm ID. A failed poll leaves
	// this untouched so pending alerts are not spuriously cleared.
	alarms map[string]models.Alarm

	// Ringing entries keyed by alarm ID. Existence here is the duplicate
	// guard: one alarm, at most one entry.
	ringing map[string]*models.TriggeredEntry

	// Alarm IDs closed via the local escape hatch. A closed alarm does not
	// re-ring from the same server state; a successful snooze clears its
	// entry here so the alarm is eligible again once the snooze elapses.
	closed map[string]struct{}

	muted  bool
	window time.Duration
}

func NewReminderStore() *ReminderStore {
	return &ReminderStore{
		alarms:  make(map[string]models.Alarm),
		ringing: make(map[string]*models.TriggeredEntry),
		closed:  make(map[string]struct{}),
		window:  TriggerWindow,
	}
}

// SetAlarms replaces the alarm snapshot. Called only after a successful
// poll; ringing entries and the closed set are preserved across snapshots.
func (rs *ReminderStore) SetAlarms(alarms []models.Alarm) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.alarms = make(map[string]models.Alarm, len(alarms))
	for _, alarm := range alarms {
		rs.alarms[alarm.ID] = alarm
	}

	// Drop ringing entries whose alarm vanished from the snapshot (the
	// user dismissed it through another client, or it expired server-side).
	for id := range rs.ringing {
		if _, ok := rs.alarms[id]; !ok {
			delete(rs.ringing, id)
		}
	}

	// Closed-set maintenance: forget alarms that left the active set, and
	// alarms that were snoozed through another path. Either way the server
	// state moved on, and the next firing should be a fresh one.
	for id := range rs.closed {
		alarm, ok := rs.alarms[id]
		if !ok || alarm.IsSnoozed {
			delete(rs.closed, id)
		}
	}
}

// Alarms returns the current snapshot sorted by alarm time.
func (rs *ReminderStore) Alarms() []models.Alarm {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	result := make([]models.Alarm, 0, len(rs.alarms))
	for _, alarm := range rs.alarms {
		result = append(result, alarm)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AlarmTime.Time().Before(result[j].AlarmTime.Time())
	})
	return result
}

// Evaluate checks every alarm in the snapshot against now and creates a
// TriggeredEntry for each one that newly entered its firing window. It
// returns only the entries created by this call, so side effects (sound,
// system notification) happen once per firing, not once per tick.
// Re-running against unchanged state is a no-op.
func (rs *ReminderStore) Evaluate(now time.Time) []*models.TriggeredEntry {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var fired []*models.TriggeredEntry
	for id, alarm := range rs.alarms {
		if !alarm.IsActive {
			continue
		}
		if _, ok := rs.closed[id]; ok {
			continue
		}
		if alarm.Snoozing(now) {
			continue
		}
		if _, ok := rs.ringing[id]; ok {
			continue
		}

		diff := now.Sub(alarm.AlarmTime.Time())
		if diff < 0 {
			diff = -diff
		}
		if diff > rs.window {
			continue
		}

		entry := &models.TriggeredEntry{
			ID:          uuid.New().String(),
			AlarmID:     id,
			Title:       alarm.Title,
			Description: alarm.Description,
			AlarmTime:   alarm.AlarmTime.Time(),
			TriggeredAt: now,
			Status:      models.TriggerStatusRinging,
		}
		rs.ringing[id] = entry
		fired = append(fired, entry)
	}

	sort.Slice(fired, func(i, j int) bool {
		return fired[i].AlarmTime.Before(fired[j].AlarmTime)
	})
	return fired
}

// Ringing returns the live entries sorted by alarm time.
func (rs *ReminderStore) Ringing() []*models.TriggeredEntry {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	result := make([]*models.TriggeredEntry, 0, len(rs.ringing))
	for _, entry := range rs.ringing {
		result = append(result, entry)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].AlarmTime.Before(result[j].AlarmTime)
	})
	return result
}

// RingingCount returns the number of live entries.
func (rs *ReminderStore) RingingCount() int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.ringing)
}

// IsRinging reports whether a live entry exists for the alarm.
func (rs *ReminderStore) IsRinging(alarmID string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	_, ok := rs.ringing[alarmID]
	return ok
}

// MarkStatus records that a server action for the entry is in flight, so
// the pop-up can disable its buttons. No-op if the entry is gone.
func (rs *ReminderStore) MarkStatus(alarmID string, status models.TriggerStatus) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	if entry, ok := rs.ringing[alarmID]; ok {
		entry.Status = status
	}
}

// ResolveSnoozed removes the entry after a confirmed snooze and clears the
// alarm from the closed set so it may ring again once the snooze elapses.
func (rs *ReminderStore) ResolveSnoozed(alarmID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.ringing, alarmID)
	delete(rs.closed, alarmID)
}

// ResolveDismissed removes the entry after a confirmed dismiss. The server
// drops the alarm from the active set, so no closed-set bookkeeping is
// needed.
func (rs *ReminderStore) ResolveDismissed(alarmID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.ringing, alarmID)
}

// CloseLocally silences the pop-up without a server call. The alarm stays
// active server-side; the closed set stops it re-ringing from the same
// snapshot.
func (rs *ReminderStore) CloseLocally(alarmID string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.ringing, alarmID)
	rs.closed[alarmID] = struct{}{}
}

// LocallyClosed reports whether the alarm is in the closed set.
func (rs *ReminderStore) LocallyClosed(alarmID string) bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	_, ok := rs.closed[alarmID]
	return ok
}

// SetMuted toggles the session-only sound mute. Visibility and trigger
// logic are unaffected.
func (rs *ReminderStore) SetMuted(muted bool) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.muted = muted
}

// Muted reports the session mute flag.
func (rs *ReminderStore) Muted() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return rs.muted
}

// ShouldSound reports whether the shared alarm loop ought to be playing:
// at least one entry ringing and the session not muted.
func (rs *ReminderStore) ShouldSound() bool {
	rs.mu.RLock()
	defer rs.mu.RUnlock()
	return len(rs.ringing) > 0 && !rs.muted
}
