package sim

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/washroute/core/model"
)

// ActivityLogCap bounds the activity log.
const ActivityLogCap = 80

// Bounds limit the number of active helpers.
type Bounds struct {
	Initial int
	Min     int
	Max     int
}

// DefaultBounds returns the stock bounds for n helpers.
func DefaultBounds(n int) Bounds {
	return Bounds{Initial: min(10, n), Min: min(8, n), Max: min(12, n)}
}

// Resolve fills zero fields from DefaultBounds and keeps the result within
// [0, n].
func (b Bounds) Resolve(n int) Bounds {
	d := DefaultBounds(n)
	if b.Initial <= 0 {
		b.Initial = d.Initial
	}
	if b.Min <= 0 {
		b.Min = d.Min
	}
	if b.Max <= 0 {
		b.Max = d.Max
	}
	b.Initial, b.Min, b.Max = min(b.Initial, n), min(b.Min, n), min(b.Max, n)
	return b
}

// ActivityChange is the kind of an activity log entry.
type ActivityChange string

const (
	ChangeAdded         ActivityChange = "added"
	ChangeRemoved       ActivityChange = "removed"
	ChangeStatusChanged ActivityChange = "statusChanged"
)

// ActivityLogEntry records one activity change.
type ActivityLogEntry struct {
	ID        string             `json:"id"`
	HelperID  string             `json:"helper_id"`
	Timestamp time.Time          `json:"timestamp"`
	Type      ActivityChange     `json:"type"`
	From      model.HelperStatus `json:"from,omitempty"`
	To        model.HelperStatus `json:"to,omitempty"`
}

// Activity steps helpers on and off shift and toggles their availability.
type Activity struct {
	bounds Bounds
	unit   distuv.Uniform
	coin   distuv.Bernoulli
	log    []ActivityLogEntry
}

// NewActivity returns an Activity with bounds resolved against helpers and
// the initial activity: the first Initial helpers are active, all available.
func NewActivity(helpers []model.Helper, b Bounds, src rand.Source) (*Activity, []model.HelperActivity) {
	b = b.Resolve(len(helpers))
	entries := make([]model.HelperActivity, len(helpers))
	for i, h := range helpers {
		entries[i] = model.HelperActivity{ID: h.ID, Status: model.HelperAvailable, Active: i < b.Initial}
	}
	return &Activity{
		bounds: b,
		unit:   distuv.Uniform{Min: 0, Max: 1, Src: src},
		coin:   distuv.Bernoulli{P: 0.5, Src: src},
	}, entries
}

// Bounds returns the resolved bounds.
func (a *Activity) Bounds() Bounds { return a.bounds }

// Log returns the newest-first activity log.
func (a *Activity) Log() []ActivityLogEntry {
	return append([]ActivityLogEntry(nil), a.log...)
}

func (a *Activity) record(e ActivityLogEntry) {
	next := make([]ActivityLogEntry, 0, len(a.log)+1)
	next = append(next, e)
	next = append(next, a.log...)
	if len(next) > ActivityLogCap {
		next = next[:ActivityLogCap]
	}
	a.log = next
}

func (a *Activity) pick(n int) int {
	i := int(a.unit.Rand() * float64(n))
	return min(i, n-1)
}

func split(entries []model.HelperActivity) (active, inactive []int) {
	for i, e := range entries {
		if e.Active {
			active = append(active, i)
		} else {
			inactive = append(inactive, i)
		}
	}
	return active, inactive
}

// Adjust activates or deactivates one helper while staying within the
// bounds. It returns a new slice; entries is not modified.
func (a *Activity) Adjust(entries []model.HelperActivity, now time.Time) []model.HelperActivity {
	active, inactive := split(entries)
	canAdd := len(active) < a.bounds.Max && len(inactive) > 0
	canRemove := len(active) > a.bounds.Min
	if !canAdd && !canRemove {
		return entries
	}
	next := append([]model.HelperActivity(nil), entries...)
	if canAdd && (!canRemove || a.coin.Rand() == 1) {
		i := inactive[a.pick(len(inactive))]
		next[i].Active = true
		a.record(ActivityLogEntry{
			ID:       fmt.Sprintf("helper_log_%d_%s_added", now.UnixMilli(), next[i].ID),
			HelperID: next[i].ID, Timestamp: now, Type: ChangeAdded,
		})
		return next
	}
	i := active[a.pick(len(active))]
	next[i].Active = false
	a.record(ActivityLogEntry{
		ID:       fmt.Sprintf("helper_log_%d_%s_removed", now.UnixMilli(), next[i].ID),
		HelperID: next[i].ID, Timestamp: now, Type: ChangeRemoved,
	})
	return next
}

// Toggle flips the availability of an active helper. Inactive or unknown
// helpers are left unchanged.
func (a *Activity) Toggle(entries []model.HelperActivity, helperID string, now time.Time) []model.HelperActivity {
	for i, e := range entries {
		if e.ID != helperID {
			continue
		}
		if !e.Active {
			return entries
		}
		next := append([]model.HelperActivity(nil), entries...)
		to := model.HelperUnavailable
		if e.Status == model.HelperUnavailable {
			to = model.HelperAvailable
		}
		next[i].Status = to
		a.record(ActivityLogEntry{
			ID:       fmt.Sprintf("helper_log_%d_%s_status", now.UnixMilli(), helperID),
			HelperID: helperID, Timestamp: now, Type: ChangeStatusChanged,
			From: e.Status, To: to,
		})
		return next
	}
	return entries
}

// Step runs one adjustment and toggles the availability of one random
// active helper.
func (a *Activity) Step(entries []model.HelperActivity, now time.Time) []model.HelperActivity {
	next := a.Adjust(entries, now)
	active, _ := split(next)
	if len(active) == 0 {
		return next
	}
	return a.Toggle(next, next[active[a.pick(len(active))]].ID, now)
}
