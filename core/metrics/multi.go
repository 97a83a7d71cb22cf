package metrics

import "errors"

// MultiSink fans events out to several sinks. Optional recorders are only
// invoked on sinks that implement them.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// each calls fn on every sink implementing R and joins the errors.
func each[R any](sinks []MetricsSink, fn func(R) error) error {
	var errs []error
	for _, s := range sinks {
		if r, ok := s.(R); ok {
			if err := fn(r); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordPlanScores forwards scoring results to all sinks.
func (m *MultiSink) RecordPlanScores(ev PlanScoreEvent) error {
	return each(m.Sinks, func(s MetricsSink) error { return s.RecordPlanScores(ev) })
}

func (m *MultiSink) RecordPlanSelection(ev PlanSelectionEvent) error {
	return each(m.Sinks, func(r PlanSelectionRecorder) error { return r.RecordPlanSelection(ev) })
}

func (m *MultiSink) RecordCollision(ev CollisionMetricEvent) error {
	return each(m.Sinks, func(r CollisionRecorder) error { return r.RecordCollision(ev) })
}

func (m *MultiSink) RecordTransfer(ev TransferMetricEvent) error {
	return each(m.Sinks, func(r TransferRecorder) error { return r.RecordTransfer(ev) })
}

func (m *MultiSink) RecordStrike(ev StrikeMetricEvent) error {
	return each(m.Sinks, func(r StrikeRecorder) error { return r.RecordStrike(ev) })
}

func (m *MultiSink) RecordOrderStats(ev OrderStatsEvent) error {
	return each(m.Sinks, func(r OrderStatsRecorder) error { return r.RecordOrderStats(ev) })
}
