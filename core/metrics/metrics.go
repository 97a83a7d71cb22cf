package metrics

import (
	"time"

	"github.com/kilianp07/washroute/core/model"
)

// PlanScoreEvent is the outcome of one scoring pass.
type PlanScoreEvent struct {
	Metrics []model.PlanMetrics
	Best    model.PlanID
	Time    time.Time
}

// MetricsSink records plan scoring results for observability purposes.
type MetricsSink interface {
	RecordPlanScores(ev PlanScoreEvent) error
}

// PlanSelectionEvent captures an operator plan choice.
type PlanSelectionEvent struct {
	Plan           model.PlanID
	CompositeScore float64
	VehicleID      string
	Time           time.Time
}

// PlanSelectionRecorder records plan selections.
type PlanSelectionRecorder interface {
	RecordPlanSelection(ev PlanSelectionEvent) error
}

// CollisionMetricEvent describes one handled collision.
type CollisionMetricEvent struct {
	OrderID          string
	HelperID         string
	VehicleID        string
	Attempt          int
	Status           model.AssetTransferStatus
	SearchRadiusKm   float64
	BonusMultiplier  float64
	RescueEtaSeconds float64
	TrunkUnlocked    bool
	Time             time.Time
}

// CollisionRecorder records collision handling.
type CollisionRecorder interface {
	RecordCollision(ev CollisionMetricEvent) error
}

// TransferMetricEvent marks a completed cargo transfer.
type TransferMetricEvent struct {
	OrderID  string
	Attempts int
	Time     time.Time
}

// TransferRecorder records completed transfers.
type TransferRecorder interface {
	RecordTransfer(ev TransferMetricEvent) error
}

// StrikeMetricEvent is an integrity strike applied to a helper.
type StrikeMetricEvent struct {
	HelperID string
	OrderID  string
	Reason   string
	Score    float64
	Strikes  int
	Time     time.Time
}

// StrikeRecorder records integrity strikes.
type StrikeRecorder interface {
	RecordStrike(ev StrikeMetricEvent) error
}

// OrderStatsEvent is a snapshot of the order book.
type OrderStatsEvent struct {
	ByStatus      map[model.OrderStatus]int
	ActiveHelpers int
	TotalHelpers  int
	Time          time.Time
}

// OrderStatsRecorder records order book snapshots.
type OrderStatsRecorder interface {
	RecordOrderStats(ev OrderStatsEvent) error
}

// NopSink implements MetricsSink and every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordPlanScores(PlanScoreEvent) error        { return nil }
func (NopSink) RecordPlanSelection(PlanSelectionEvent) error { return nil }
func (NopSink) RecordCollision(CollisionMetricEvent) error   { return nil }
func (NopSink) RecordTransfer(TransferMetricEvent) error     { return nil }
func (NopSink) RecordStrike(StrikeMetricEvent) error         { return nil }
func (NopSink) RecordOrderStats(OrderStatsEvent) error       { return nil }
