// Package session holds the mutable state of one simulation run. Every
// transition runs under a single mutex and swaps whole aggregates, so
// snapshots handed out earlier are never modified.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/washroute/core/events"
	"github.com/kilianp07/washroute/core/integrity"
	"github.com/kilianp07/washroute/core/logger"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/planner"
	"github.com/kilianp07/washroute/core/recovery"
	"github.com/kilianp07/washroute/core/review"
	"github.com/kilianp07/washroute/internal/eventbus"
)

var (
	// ErrPlanUnavailable is returned when a plan has no metrics to record.
	ErrPlanUnavailable = errors.New("plan unavailable")
	// ErrUnknownOrder is returned for order ids not in the book.
	ErrUnknownOrder = errors.New("unknown order")
)

// Options configure a Session. Zero values select defaults.
type Options struct {
	Roster   model.Roster
	Weights  *model.Weights
	Tuning   *planner.Tuning
	OrderCap int
	// Activity seeds the helper activity; nil marks every helper active
	// and available.
	Activity []model.HelperActivity
	Bus      *eventbus.TypedBus[events.Event]
	Logger   logger.Logger
}

// Session is the aggregate of orders, integrity, routing and plan history.
type Session struct {
	mu sync.Mutex

	roster   model.Roster
	planner  *planner.Planner
	orderCap int
	bus      *eventbus.TypedBus[events.Event]
	log      logger.Logger

	orders   []model.Order
	ledger   integrity.Ledger
	routing  model.RoutingEngineState
	history  planner.History
	weights  model.Weights
	activity []model.HelperActivity
	last     *planner.Result

	helpersHidden        bool
	lastMissionVehicleID string
}

// New creates a Session over opts.Roster.
func New(opts Options) *Session {
	weights := model.DefaultWeights()
	if opts.Weights != nil {
		weights = *opts.Weights
	}
	tuning := planner.DefaultTuning()
	if opts.Tuning != nil {
		tuning = *opts.Tuning
	}
	if opts.OrderCap <= 0 {
		opts.OrderCap = model.DefaultOrderCap
	}
	if opts.Logger == nil {
		opts.Logger = logger.Nop{}
	}
	activity := append([]model.HelperActivity(nil), opts.Activity...)
	if opts.Activity == nil {
		for _, h := range opts.Roster.Helpers {
			activity = append(activity, model.HelperActivity{ID: h.ID, Status: model.HelperAvailable, Active: true})
		}
	}
	return &Session{
		roster:   opts.Roster,
		planner:  planner.New(tuning),
		orderCap: opts.OrderCap,
		bus:      opts.Bus,
		log:      opts.Logger,
		ledger:   integrity.NewLedger(opts.Roster.Helpers),
		routing:  model.NewRoutingEngineState(),
		weights:  weights,
		activity: activity,
	}
}

// Roster returns the static roster.
func (s *Session) Roster() model.Roster { return s.roster }

func (s *Session) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Session) ordersEvent(action string, now time.Time) events.OrdersEvent {
	return events.OrdersEvent{
		Action:        action,
		Orders:        append([]model.Order(nil), s.orders...),
		ActiveHelpers: len(model.ActiveHelpers(s.activity)),
		TotalHelpers:  len(s.roster.Helpers),
		Time:          now,
	}
}

// AddOrders appends orders and keeps the newest OrderCap of them.
func (s *Session) AddOrders(now time.Time, orders ...model.Order) {
	if len(orders) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Order, 0, len(s.orders)+len(orders))
	next = append(next, s.orders...)
	next = append(next, orders...)
	s.orders = model.CapOrders(next, s.orderCap)
	s.last = nil
	s.log.Debugf("added %d orders, book holds %d", len(orders), len(s.orders))
	s.publish(s.ordersEvent("added", now))
}

// ResetOrders empties the order book. Integrity and routing are kept.
func (s *Session) ResetOrders(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders = nil
	s.last = nil
	s.publish(s.ordersEvent("reset", now))
}

// AdvanceOrders moves every non-completed order one status forward, then
// accounts newly completed orders in the integrity ledger.
func (s *Session) AdvanceOrders(now time.Time) []integrity.Strike {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.Order, len(s.orders))
	for i, o := range s.orders {
		next[i] = o.Advance()
	}
	s.orders = next
	s.last = nil
	s.publish(s.ordersEvent("advanced", now))

	ledger, strikes := s.ledger.ApplyCompleted(s.orders)
	s.ledger = ledger
	for _, st := range strikes {
		s.log.Infof("strike for %s on %s (%s): score %.0f, strikes %d",
			st.HelperID, st.OrderID, st.Reason, st.Record.Score, st.Record.Strikes)
		s.publish(events.StrikeEvent{
			OrderID:  st.OrderID,
			HelperID: st.HelperID,
			Reason:   st.Reason,
			Record:   st.Record,
			Time:     now,
		})
	}
	return strikes
}

// ScorePlans runs a scoring pass over the current state and keeps the
// result for SelectPlan until the next change to orders, routing, weights
// or helper activity.
func (s *Session) ScorePlans(now time.Time) planner.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.score(now)
	s.publish(events.PlansScoredEvent{Metrics: res.Metrics, Best: res.Best, Time: now})
	return res
}

func (s *Session) score(now time.Time) planner.Result {
	res := s.planner.Compute(planner.Input{
		Roster:        s.roster,
		Orders:        s.orders,
		Now:           now,
		Routing:       s.routing,
		Integrity:     s.ledger,
		History:       s.history,
		Weights:       s.weights,
		ActiveHelpers: len(model.ActiveHelpers(s.activity)),
	})
	s.last = &res
	if res.Best != "" {
		s.log.Debugw("plans scored", map[string]any{
			"best":             string(res.Best),
			"lowest_guarantee": string(res.LowestGuarantee),
			"plans":            len(res.Metrics),
		})
	}
	return res
}

// SelectPlan records the operator's choice of plan in the history, hides
// helpers for the mission and remembers the mission vehicle. A scoring
// pass runs first when none is cached.
func (s *Session) SelectPlan(plan model.PlanID, now time.Time) (model.PlanHistoryEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.last
	if res == nil {
		r := s.score(now)
		res = &r
	}
	history, ok := s.history.Record(res.Metrics, plan, now)
	if !ok {
		return model.PlanHistoryEntry{}, fmt.Errorf("select %s: %w", plan, ErrPlanUnavailable)
	}
	s.history = history
	entry := history[0]
	sel := res.Selections[plan]
	s.helpersHidden = true
	s.lastMissionVehicleID = sel.VehicleA.ID
	s.log.Infof("selected plan %s (composite %.3f) with %s", plan, entry.CompositeScore, sel.VehicleA.ID)
	s.publish(events.PlanSelectedEvent{
		Entry:     entry,
		VehicleID: sel.VehicleA.ID,
		HelperID:  sel.Helper.ID,
		Time:      now,
	})
	return entry, nil
}

// CompleteMission shows helpers again and forgets the mission vehicle.
func (s *Session) CompleteMission() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.helpersHidden = false
	s.lastMissionVehicleID = ""
}

// HandleCollision runs one step of the recovery state machine. An empty
// opts.Roster uses the session roster and a nil opts.Available uses the
// session helper activity. An empty opts.HelperID falls back to the helper
// of the order, then to the first active helper.
func (s *Session) HandleCollision(ev model.CollisionEvent, opts recovery.Options) model.RoutingEngineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(opts.Roster.Helpers) == 0 && len(opts.Roster.Vehicles) == 0 {
		opts.Roster = s.roster
	}
	if opts.Available == nil {
		opts.Available = s.activity
	}
	if opts.HelperID == "" {
		opts.HelperID = s.rescuer(ev.OrderID, opts.Available)
	}
	next := recovery.HandleCollision(s.routing, ev, opts)
	s.routing = next
	s.last = nil

	assignments := next.AssignmentsFor(ev.OrderID)
	last := assignments[len(assignments)-1]
	status := next.Status(ev.OrderID)
	s.log.Infof("collision on %s: attempt %d, %s via %s/%s", ev.OrderID, last.Attempt, status, last.HelperID, last.VehicleID)
	s.publish(events.CollisionEvent{
		Collision:        ev,
		Assignment:       last,
		Status:           status,
		SearchRadiusKm:   next.SearchRadiusKm[ev.OrderID],
		BonusMultiplier:  next.RescueBonusMultiplier[ev.OrderID],
		RescueEtaSeconds: next.RescueEtaSeconds[ev.OrderID],
		TrunkUnlocked:    next.TrunkUnlocked[ev.OrderID],
		Time:             ev.Timestamp,
	})
	return next.Clone()
}

// rescuer picks the default helper for a collision on orderID.
func (s *Session) rescuer(orderID string, available []model.HelperActivity) string {
	for _, o := range s.orders {
		if o.ID == orderID && o.HasHelper() {
			return o.HelperID
		}
	}
	if active := model.ActiveHelpers(available); len(active) > 0 {
		return active[0].ID
	}
	if len(s.roster.Helpers) > 0 {
		return s.roster.Helpers[0].ID
	}
	return ""
}

// MarkAssetTransferCompleted marks the order's cargo as transferred.
func (s *Session) MarkAssetTransferCompleted(orderID string, now time.Time) model.RoutingEngineState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routing = recovery.MarkAssetTransferCompleted(s.routing, orderID)
	s.last = nil
	s.publish(events.TransferEvent{
		OrderID:  orderID,
		Attempts: len(s.routing.AssignmentsFor(orderID)),
		Time:     now,
	})
	return s.routing.Clone()
}

// SetWeights replaces the operator weights used by later scoring passes.
func (s *Session) SetWeights(w model.Weights) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weights = w
	s.last = nil
}

// SetHelperActivity replaces the helper activity.
func (s *Session) SetHelperActivity(entries []model.HelperActivity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.activity = append([]model.HelperActivity(nil), entries...)
	s.last = nil
}

// HelperActivity returns a copy of the helper activity.
func (s *Session) HelperActivity() []model.HelperActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.HelperActivity(nil), s.activity...)
}

// Review builds the review card of one order.
func (s *Session) Review(orderID string, now time.Time) (review.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return review.Review(o, now, s.roster, s.orders, s.routing, s.ledger), nil
		}
	}
	return review.Card{}, fmt.Errorf("review %s: %w", orderID, ErrUnknownOrder)
}
