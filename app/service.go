package app

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/washroute/config"
	"github.com/kilianp07/washroute/core/events"
	coremetrics "github.com/kilianp07/washroute/core/metrics"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/recovery"
	"github.com/kilianp07/washroute/core/roster"
	"github.com/kilianp07/washroute/core/session"
	"github.com/kilianp07/washroute/core/sim"
	"github.com/kilianp07/washroute/infra/logger"
	"github.com/kilianp07/washroute/infra/metrics"
	"github.com/kilianp07/washroute/infra/mqtt"
	"github.com/kilianp07/washroute/internal/eventbus"
)

// BusBuffer is the per-subscriber buffer of the service event bus.
const BusBuffer = 256

// Publisher is the MQTT side of the service.
type Publisher interface {
	PublishPlans(metrics []model.PlanMetrics, best model.PlanID, at time.Time) error
	PublishRouting(state model.RoutingEngineState, at time.Time) error
}

// Service runs one simulation: order generation, helper activity, scoring
// passes and collision recovery over a single session.
type Service struct {
	cfg      *config.Config
	Session  *session.Session
	gen      *sim.Generator
	activity *sim.Activity
	bus      *eventbus.TypedBus[events.Event]
	sink     coremetrics.MetricsSink
	log      logger.Logger

	client    *mqtt.PahoClient
	publisher Publisher
	now       func() time.Time
}

// Seed resolves the configured seed; zero picks one from the clock.
func Seed(cfg config.SimulationConfig) uint64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// NewSession builds the session and the seeded simulation around it
// without any transport.
func NewSession(cfg *config.Config, bus *eventbus.TypedBus[events.Event], log logger.Logger) (*session.Session, *sim.Generator, *sim.Activity) {
	r := roster.Default()
	src := sim.NewSource(Seed(cfg.Simulation))
	a := cfg.Simulation.Activity
	activity, entries := sim.NewActivity(r.Helpers, sim.Bounds{Initial: a.Initial, Min: a.Min, Max: a.Max}, src)
	weights := cfg.Scoring.EffectiveWeights()
	tuning := cfg.Scoring.Tuning()
	sess := session.New(session.Options{
		Roster:   r,
		Weights:  &weights,
		Tuning:   &tuning,
		OrderCap: cfg.Simulation.OrderCap,
		Activity: entries,
		Bus:      bus,
		Logger:   log,
	})
	return sess, sim.NewGenerator(r, src), activity
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	if err := logger.Setup(cfg.Log); err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	logg := logger.New("service")

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}

	bus := eventbus.NewTypedWithBuffer[events.Event](BusBuffer)
	sess, gen, activity := NewSession(cfg, bus, logger.New("session"))
	svc := &Service{
		cfg:      cfg,
		Session:  sess,
		gen:      gen,
		activity: activity,
		bus:      bus,
		sink:     sink,
		log:      logg,
		now:      time.Now,
	}

	if cfg.MQTT.Enabled {
		client, err := mqtt.NewPahoClient(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt client: %w", err)
		}
		svc.client = client
		svc.publisher = mqtt.NewSnapshotPublisher(client, cfg.MQTT)
		topic := cfg.MQTT.Topic(mqtt.TopicCollisions)
		if err := mqtt.SubscribeCollisions(client, topic, svc.onCollision, logger.New("mqtt")); err != nil {
			client.Disconnect()
			return nil, fmt.Errorf("subscribe %s: %w", topic, err)
		}
	}
	return svc, nil
}

func (s *Service) onCollision(ev model.CollisionEvent) {
	s.Session.HandleCollision(ev, recovery.Options{})
}

// Run starts the service and blocks until the context is cancelled.
func (s *Service) Run(ctx context.Context) error {
	done := metrics.StartEventCollector(ctx, s.bus, s.sink, logger.New("collector"))
	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+port, prometheus.DefaultGatherer); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	sc := s.cfg.Simulation
	tick := time.NewTicker(sc.Tick)
	defer tick.Stop()
	act := time.NewTicker(sc.Activity.Interval)
	defer act.Stop()
	orders := time.NewTimer(0)
	defer orders.Stop()

	s.log.Infof("simulation started: tick=%s batch=%d cap=%d", sc.Tick, sc.BatchSize, sc.OrderCap)
	for {
		select {
		case <-ctx.Done():
			s.bus.Close()
			<-done
			return nil
		case <-orders.C:
			s.generate(s.now())
			orders.Reset(s.gen.Between(sc.OrderInterval, sc.OrderIntervalMax))
		case <-act.C:
			s.Session.SetHelperActivity(s.activity.Step(s.Session.HelperActivity(), s.now()))
		case <-tick.C:
			s.Tick(s.now())
		}
	}
}

// generate adds one batch of orders and, in stress mode, drives a
// collision chain against the newest order.
func (s *Service) generate(now time.Time) {
	sc := s.cfg.Simulation
	batch := s.gen.Batch(sc.BatchSize, now, sc.HomeMode)
	s.Session.AddOrders(now, batch...)
	if !sc.StressTest || len(batch) == 0 {
		return
	}
	orderID := batch[len(batch)-1].ID
	r := s.Session.Roster()
	ev := sim.StressCollision(orderID, r, now)
	for _, opts := range sim.StressSteps(r) {
		s.Session.HandleCollision(ev, opts)
	}
	s.Session.MarkAssetTransferCompleted(orderID, now)
}

// Tick advances the order lifecycle, rescores the plans and publishes the
// snapshots when MQTT is enabled.
func (s *Service) Tick(now time.Time) {
	if strikes := s.Session.AdvanceOrders(now); len(strikes) > 0 {
		s.log.Debugf("%d integrity strikes", len(strikes))
	}
	res := s.Session.ScorePlans(now)
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishPlans(res.Metrics, res.Best, now); err != nil {
		s.log.Warnf("publish plans: %v", err)
	}
	if err := s.publisher.PublishRouting(s.Session.Snapshot().Routing, now); err != nil {
		s.log.Warnf("publish routing: %v", err)
	}
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.client != nil {
		s.client.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
