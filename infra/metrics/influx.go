package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/washroute/core/metrics"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/infra/logger"
)

// InfluxSink writes planner and recovery events to an InfluxDB instance.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// InfluxConfig holds the connection settings of an InfluxSink.
type InfluxConfig struct {
	URL    string `json:"url"`
	Token  string `json:"token"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(cfg InfluxConfig) *InfluxSink {
	base := strings.TrimSuffix(cfg.URL, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, cfg.Token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.Org, cfg.Bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the InfluxDB instance and returns a NopSink
// if the health check fails.
func NewInfluxSinkWithFallback(cfg InfluxConfig) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// Close releases the underlying client.
func (s *InfluxSink) Close() { s.client.Close() }

func (s *InfluxSink) write(points ...*write.Point) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.writeAPI.WritePoint(ctx, points...)
}

// RecordPlanScores writes one plan_score point per plan.
func (s *InfluxSink) RecordPlanScores(ev coremetrics.PlanScoreEvent) error {
	points := make([]*write.Point, 0, len(ev.Metrics))
	for _, m := range ev.Metrics {
		points = append(points, write.NewPointWithMeasurement("plan_score").
			AddTag("plan", string(m.ID)).
			AddTag("best", strconv.FormatBool(m.ID == ev.Best)).
			AddField("composite", round3(m.CompositeScore)).
			AddField("distance_km", round3(m.TotalDistanceKm)).
			AddField("minutes", round3(m.EstimatedMinutes)).
			AddField("efficiency", round3(m.Efficiency)).
			AddField("custody", round3(m.ChainOfCustodyScore)).
			AddField("recovery", round3(m.FaultRecoveryScore)).
			AddField("guarantee", round3(m.GuaranteeAdjustment)).
			SetTime(ev.Time))
	}
	if len(points) == 0 {
		return nil
	}
	return s.write(points...)
}

func (s *InfluxSink) RecordPlanSelection(ev coremetrics.PlanSelectionEvent) error {
	p := write.NewPointWithMeasurement("plan_selection").
		AddTag("plan", string(ev.Plan)).
		AddField("composite", round3(ev.CompositeScore)).
		SetTime(ev.Time)
	if ev.VehicleID != "" {
		p.AddTag("vehicle_id", ev.VehicleID)
	}
	return s.write(p)
}

// RecordCollision writes the state of the rescue after a collision.
func (s *InfluxSink) RecordCollision(ev coremetrics.CollisionMetricEvent) error {
	p := write.NewPointWithMeasurement("collision").
		AddTag("order_id", ev.OrderID).
		AddTag("status", string(ev.Status)).
		AddTag("attempt", strconv.Itoa(ev.Attempt)).
		AddField("search_radius_km", round3(ev.SearchRadiusKm)).
		AddField("bonus_multiplier", round3(ev.BonusMultiplier)).
		AddField("rescue_eta_s", round3(ev.RescueEtaSeconds)).
		AddField("trunk_unlocked", ev.TrunkUnlocked).
		SetTime(ev.Time)
	if ev.HelperID != "" {
		p.AddTag("helper_id", ev.HelperID)
	}
	if ev.VehicleID != "" {
		p.AddTag("vehicle_id", ev.VehicleID)
	}
	return s.write(p)
}

func (s *InfluxSink) RecordTransfer(ev coremetrics.TransferMetricEvent) error {
	p := write.NewPointWithMeasurement("transfer").
		AddTag("order_id", ev.OrderID).
		AddField("attempts", ev.Attempts).
		SetTime(ev.Time)
	return s.write(p)
}

func (s *InfluxSink) RecordStrike(ev coremetrics.StrikeMetricEvent) error {
	p := write.NewPointWithMeasurement("integrity_strike").
		AddTag("helper_id", ev.HelperID).
		AddTag("order_id", ev.OrderID).
		AddField("reason", ev.Reason).
		AddField("score", round3(ev.Score)).
		AddField("strikes", ev.Strikes).
		SetTime(ev.Time)
	return s.write(p)
}

// RecordOrderStats writes the order book snapshot as a single point.
func (s *InfluxSink) RecordOrderStats(ev coremetrics.OrderStatsEvent) error {
	p := write.NewPointWithMeasurement("order_stats").
		AddField("active_helpers", ev.ActiveHelpers).
		AddField("total_helpers", ev.TotalHelpers).
		SetTime(ev.Time)
	for st := model.StatusQueued; st <= model.StatusCompleted; st++ {
		p.AddField(strings.ToLower(st.String()), ev.ByStatus[st])
	}
	return s.write(p)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
