package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/washroute/core/metrics"
	"github.com/kilianp07/washroute/core/model"
)

// PromSink exposes planner and recovery activity as Prometheus metrics.
type PromSink struct {
	composite  *prometheus.GaugeVec
	distance   *prometheus.GaugeVec
	best       *prometheus.GaugeVec
	selections *prometheus.CounterVec
	collisions *prometheus.CounterVec
	rescueEta  prometheus.Histogram
	transfers  prometheus.Counter
	strikes    *prometheus.CounterVec
	integrity  *prometheus.GaugeVec
	orders     *prometheus.GaugeVec
	helpers    *prometheus.GaugeVec
}

// NewPromSink registers metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// that are already registered are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		composite: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_plan_composite_score",
			Help: "Composite score of each plan in the last scoring pass",
		}, []string{"plan"}),
		distance: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_plan_distance_km",
			Help: "Total route length of each plan in the last scoring pass",
		}, []string{"plan"}),
		best: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_plan_best",
			Help: "1 for the plan ranked best in the last scoring pass",
		}, []string{"plan"}),
		selections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washroute_plan_selections_total",
			Help: "Number of recorded plan selections",
		}, []string{"plan"}),
		collisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washroute_collisions_total",
			Help: "Number of handled collision events by resulting asset status",
		}, []string{"status"}),
		rescueEta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "washroute_rescue_eta_seconds",
			Help:    "Estimated rescue arrival time",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "washroute_transfers_total",
			Help: "Number of completed cargo transfers",
		}),
		strikes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "washroute_integrity_strikes_total",
			Help: "Integrity strikes applied per helper",
		}, []string{"helper_id"}),
		integrity: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_helper_integrity_score",
			Help: "Integrity score of a helper after its last strike",
		}, []string{"helper_id"}),
		orders: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_orders",
			Help: "Orders in the book by status",
		}, []string{"status"}),
		helpers: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "washroute_helpers",
			Help: "Helpers by activity state",
		}, []string{"state"}),
	}

	var err error
	if s.composite, err = register(reg, s.composite); err != nil {
		return nil, err
	}
	if s.distance, err = register(reg, s.distance); err != nil {
		return nil, err
	}
	if s.best, err = register(reg, s.best); err != nil {
		return nil, err
	}
	if s.selections, err = register(reg, s.selections); err != nil {
		return nil, err
	}
	if s.collisions, err = register(reg, s.collisions); err != nil {
		return nil, err
	}
	if s.rescueEta, err = register(reg, s.rescueEta); err != nil {
		return nil, err
	}
	if s.transfers, err = register(reg, s.transfers); err != nil {
		return nil, err
	}
	if s.strikes, err = register(reg, s.strikes); err != nil {
		return nil, err
	}
	if s.integrity, err = register(reg, s.integrity); err != nil {
		return nil, err
	}
	if s.orders, err = register(reg, s.orders); err != nil {
		return nil, err
	}
	if s.helpers, err = register(reg, s.helpers); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordPlanScores sets the per-plan gauges.
func (s *PromSink) RecordPlanScores(ev coremetrics.PlanScoreEvent) error {
	for _, m := range ev.Metrics {
		plan := string(m.ID)
		s.composite.WithLabelValues(plan).Set(m.CompositeScore)
		s.distance.WithLabelValues(plan).Set(m.TotalDistanceKm)
		v := 0.0
		if m.ID == ev.Best {
			v = 1
		}
		s.best.WithLabelValues(plan).Set(v)
	}
	return nil
}

// RecordPlanSelection counts a selection.
func (s *PromSink) RecordPlanSelection(ev coremetrics.PlanSelectionEvent) error {
	s.selections.WithLabelValues(string(ev.Plan)).Inc()
	return nil
}

// RecordCollision counts the collision and observes its rescue ETA when one
// was computed.
func (s *PromSink) RecordCollision(ev coremetrics.CollisionMetricEvent) error {
	s.collisions.WithLabelValues(string(ev.Status)).Inc()
	if ev.RescueEtaSeconds > 0 {
		s.rescueEta.Observe(ev.RescueEtaSeconds)
	}
	return nil
}

func (s *PromSink) RecordTransfer(coremetrics.TransferMetricEvent) error {
	s.transfers.Inc()
	return nil
}

func (s *PromSink) RecordStrike(ev coremetrics.StrikeMetricEvent) error {
	s.strikes.WithLabelValues(ev.HelperID).Inc()
	s.integrity.WithLabelValues(ev.HelperID).Set(ev.Score)
	return nil
}

// RecordOrderStats replaces the order and helper gauges with the snapshot.
func (s *PromSink) RecordOrderStats(ev coremetrics.OrderStatsEvent) error {
	for st := model.StatusQueued; st <= model.StatusCompleted; st++ {
		s.orders.WithLabelValues(st.String()).Set(float64(ev.ByStatus[st]))
	}
	s.helpers.WithLabelValues("active").Set(float64(ev.ActiveHelpers))
	s.helpers.WithLabelValues("total").Set(float64(ev.TotalHelpers))
	return nil
}
