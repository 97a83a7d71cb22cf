package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/washroute/core/model"
)

// History is the newest-first log of plan selections.
type History []model.PlanHistoryEntry

// Record prepends a selection of plan built from its metrics and trims the
// log to model.PlanHistoryCap. It returns false when metrics carry no entry
// for plan. The receiver is left untouched.
func (h History) Record(metrics []model.PlanMetrics, plan model.PlanID, now time.Time) (History, bool) {
	for _, m := range metrics {
		if m.ID != plan {
			continue
		}
		entry := model.PlanHistoryEntry{
			ID:               "history_" + uuid.NewString(),
			Plan:             plan,
			Timestamp:        now,
			CompositeScore:   m.CompositeScore,
			TotalDistanceKm:  m.TotalDistanceKm,
			EstimatedMinutes: m.EstimatedMinutes,
		}
		next := make(History, 0, len(h)+1)
		next = append(next, entry)
		next = append(next, h...)
		if len(next) > model.PlanHistoryCap {
			next = next[:model.PlanHistoryCap]
		}
		return next, true
	}
	return h, false
}

// Count returns how many entries recorded plan.
func (h History) Count(plan model.PlanID) int {
	n := 0
	for _, e := range h {
		if e.Plan == plan {
			n++
		}
	}
	return n
}
