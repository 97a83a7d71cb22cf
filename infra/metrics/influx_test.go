package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/washroute/core/metrics"
	"github.com/kilianp07/washroute/core/model"
)

type capture struct {
	mu     sync.Mutex
	bodies []string
}

func (c *capture) server(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		c.mu.Lock()
		c.bodies = append(c.bodies, strings.TrimSpace(string(data)))
		c.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (c *capture) all() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.bodies...)
}

func TestInfluxSink_RecordCollision(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	now := time.Now()
	ev := coremetrics.CollisionMetricEvent{
		OrderID:          "ord_1",
		HelperID:         "helper_02",
		VehicleID:        "vehicle_06",
		Attempt:          2,
		Status:           model.AssetInRescue,
		SearchRadiusKm:   1.5,
		BonusMultiplier:  1.5,
		RescueEtaSeconds: 180,
		Time:             now,
	}
	if err := sink.RecordCollision(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	p := write.NewPointWithMeasurement("collision").
		AddTag("order_id", "ord_1").
		AddTag("status", "InRescue").
		AddTag("attempt", "2").
		AddField("search_radius_km", 1.5).
		AddField("bonus_multiplier", 1.5).
		AddField("rescue_eta_s", 180.0).
		AddField("trunk_unlocked", false).
		SetTime(now)
	p.AddTag("helper_id", "helper_02")
	p.AddTag("vehicle_id", "vehicle_06")
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	bodies := c.all()
	if len(bodies) != 1 || bodies[0] != expected {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordPlanScores(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "token", Org: "org", Bucket: "bucket"})
	defer sink.Close()

	ev := coremetrics.PlanScoreEvent{
		Metrics: []model.PlanMetrics{
			{ID: model.PlanFlash, CompositeScore: 0.61},
			{ID: model.PlanEco, CompositeScore: 0.72},
			{ID: model.PlanPremium, CompositeScore: 0.55},
		},
		Best: model.PlanEco,
		Time: time.Now(),
	}
	if err := sink.RecordPlanScores(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}
	bodies := c.all()
	if len(bodies) != 1 {
		t.Fatalf("expected one batched write, got %d", len(bodies))
	}
	lines := strings.Split(bodies[0], "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 points, got %d: %q", len(lines), bodies[0])
	}
	if !strings.Contains(lines[1], "plan=Eco") || !strings.Contains(lines[1], "best=true") {
		t.Errorf("eco line not tagged best: %s", lines[1])
	}
	if !strings.Contains(lines[0], "best=false") {
		t.Errorf("flash line tagged best: %s", lines[0])
	}
}

func TestInfluxSink_RecordPlanScoresEmpty(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Org: "org", Bucket: "bucket"})
	defer sink.Close()
	if err := sink.RecordPlanScores(coremetrics.PlanScoreEvent{}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if n := len(c.all()); n != 0 {
		t.Errorf("expected no write, got %d", n)
	}
}

func TestInfluxSink_RecordOrderStats(t *testing.T) {
	var c capture
	srv := c.server(t)
	sink := NewInfluxSink(InfluxConfig{URL: srv.URL, Org: "org", Bucket: "bucket"})
	defer sink.Close()

	err := sink.RecordOrderStats(coremetrics.OrderStatsEvent{
		ByStatus:      map[model.OrderStatus]int{model.StatusQueued: 3, model.StatusCompleted: 1},
		ActiveHelpers: 10,
		TotalHelpers:  12,
		Time:          time.Now(),
	})
	if err != nil {
		t.Fatalf("record error: %v", err)
	}
	bodies := c.all()
	if len(bodies) != 1 {
		t.Fatalf("bodies: %#v", bodies)
	}
	for _, want := range []string{"order_stats ", "queued=3i", "completed=1i", "pickingup=0i", "active_helpers=10i"} {
		if !strings.Contains(bodies[0], want) {
			t.Errorf("missing %q in %s", want, bodies[0])
		}
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(InfluxConfig{URL: srv.URL + "/api/v2/write", Token: "tok", Org: "org", Bucket: "bucket"})
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
