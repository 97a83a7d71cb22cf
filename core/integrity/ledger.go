// Package integrity keeps the per-helper reputation record.
package integrity

import (
	"math"
	"sort"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/scoring"
)

// StrikePenalty is removed from the score on every quality complaint.
const StrikePenalty = 10

// Strike describes one complaint applied to a helper.
type Strike struct {
	OrderID  string                `json:"order_id"`
	HelperID string                `json:"helper_id"`
	Reason   string                `json:"reason"`
	Record   model.HelperIntegrity `json:"record"`
}

// Ledger is an immutable set of integrity records. Every update returns a
// new Ledger and leaves the receiver untouched.
type Ledger struct {
	records   map[string]model.HelperIntegrity
	accounted map[string]struct{}
}

// NewLedger seeds every helper with a fresh record.
func NewLedger(helpers []model.Helper) Ledger {
	l := Ledger{
		records:   make(map[string]model.HelperIntegrity, len(helpers)),
		accounted: map[string]struct{}{},
	}
	for _, h := range helpers {
		l.records[h.ID] = model.FreshIntegrity()
	}
	return l
}

// Lookup returns the stored record of a helper.
func (l Ledger) Lookup(helperID string) (model.HelperIntegrity, bool) {
	rec, ok := l.records[helperID]
	return rec, ok
}

// Get returns the record of a helper, fresh when none is stored.
func (l Ledger) Get(helperID string) model.HelperIntegrity {
	if rec, ok := l.records[helperID]; ok {
		return rec
	}
	return model.FreshIntegrity()
}

// Accounted reports whether a completed order was already applied.
func (l Ledger) Accounted(orderID string) bool {
	_, ok := l.accounted[orderID]
	return ok
}

// Records returns a copy of all records.
func (l Ledger) Records() map[string]model.HelperIntegrity {
	out := make(map[string]model.HelperIntegrity, len(l.records))
	for k, v := range l.records {
		out[k] = v
	}
	return out
}

// HelperIDs returns the ids holding a record, sorted.
func (l Ledger) HelperIDs() []string {
	ids := make([]string, 0, len(l.records))
	for id := range l.records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (l Ledger) clone() Ledger {
	next := Ledger{
		records:   l.Records(),
		accounted: make(map[string]struct{}, len(l.accounted)),
	}
	for k := range l.accounted {
		next.accounted[k] = struct{}{}
	}
	return next
}

// ApplyCompleted accounts every Completed order not seen before. Orders
// with a helper and a negative rating reason cost that helper a strike.
func (l Ledger) ApplyCompleted(orders []model.Order) (Ledger, []Strike) {
	var pending []model.Order
	for _, o := range orders {
		if o.Status.IsTerminal() && !l.Accounted(o.ID) {
			pending = append(pending, o)
		}
	}
	if len(pending) == 0 {
		return l, nil
	}

	next := l.clone()
	var strikes []Strike
	for _, o := range pending {
		next.accounted[o.ID] = struct{}{}
		if !o.HasHelper() || !scoring.IsNegativeReason(o.RatingReason) {
			continue
		}
		cur := next.Get(o.HelperID)
		score := math.Max(0, cur.Score-StrikePenalty)
		count := cur.Strikes + 1
		rec := model.HelperIntegrity{Score: score, Strikes: count, HighValueEligible: model.Eligible(score, count)}
		next.records[o.HelperID] = rec
		strikes = append(strikes, Strike{OrderID: o.ID, HelperID: o.HelperID, Reason: o.RatingReason, Record: rec})
	}
	return next, strikes
}
