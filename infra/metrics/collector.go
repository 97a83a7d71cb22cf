package metrics

import (
	"context"

	"github.com/kilianp07/washroute/core/events"
	coremetrics "github.com/kilianp07/washroute/core/metrics"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/infra/logger"
	"github.com/kilianp07/washroute/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and forwards events to the
// sink recorders it implements. It stops when the context is canceled or the
// bus is closed. The returned channel is closed once the collector exits.
func StartEventCollector(ctx context.Context, bus *eventbus.TypedBus[events.Event], sink coremetrics.MetricsSink, log logger.Logger) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				if err := Record(sink, ev); err != nil {
					log.Warnf("record %s event: %v", ev.Kind(), err)
				}
			}
		}
	}()
	return done
}

// Record maps a single event onto the matching recorder of sink. Events the
// sink has no recorder for are ignored.
func Record(sink coremetrics.MetricsSink, ev events.Event) error {
	switch e := ev.(type) {
	case events.PlansScoredEvent:
		return sink.RecordPlanScores(coremetrics.PlanScoreEvent{Metrics: e.Metrics, Best: e.Best, Time: e.Time})
	case events.PlanSelectedEvent:
		if r, ok := sink.(coremetrics.PlanSelectionRecorder); ok {
			return r.RecordPlanSelection(coremetrics.PlanSelectionEvent{
				Plan:           e.Entry.Plan,
				CompositeScore: e.Entry.CompositeScore,
				VehicleID:      e.VehicleID,
				Time:           e.Time,
			})
		}
	case events.CollisionEvent:
		if r, ok := sink.(coremetrics.CollisionRecorder); ok {
			return r.RecordCollision(collisionMetric(e))
		}
	case events.TransferEvent:
		if r, ok := sink.(coremetrics.TransferRecorder); ok {
			return r.RecordTransfer(coremetrics.TransferMetricEvent{OrderID: e.OrderID, Attempts: e.Attempts, Time: e.Time})
		}
	case events.StrikeEvent:
		if r, ok := sink.(coremetrics.StrikeRecorder); ok {
			return r.RecordStrike(coremetrics.StrikeMetricEvent{
				HelperID: e.HelperID,
				OrderID:  e.OrderID,
				Reason:   e.Reason,
				Score:    e.Record.Score,
				Strikes:  e.Record.Strikes,
				Time:     e.Time,
			})
		}
	case events.OrdersEvent:
		if r, ok := sink.(coremetrics.OrderStatsRecorder); ok {
			byStatus := make(map[model.OrderStatus]int)
			for _, o := range e.Orders {
				byStatus[o.Status]++
			}
			return r.RecordOrderStats(coremetrics.OrderStatsEvent{
				ByStatus:      byStatus,
				ActiveHelpers: e.ActiveHelpers,
				TotalHelpers:  e.TotalHelpers,
				Time:          e.Time,
			})
		}
	}
	return nil
}

func collisionMetric(e events.CollisionEvent) coremetrics.CollisionMetricEvent {
	return coremetrics.CollisionMetricEvent{
		OrderID:          e.Collision.OrderID,
		HelperID:         e.Assignment.HelperID,
		VehicleID:        e.Assignment.VehicleID,
		Attempt:          e.Assignment.Attempt,
		Status:           e.Status,
		SearchRadiusKm:   e.SearchRadiusKm,
		BonusMultiplier:  e.BonusMultiplier,
		RescueEtaSeconds: e.RescueEtaSeconds,
		TrunkUnlocked:    e.TrunkUnlocked,
		Time:             e.Time,
	}
}
