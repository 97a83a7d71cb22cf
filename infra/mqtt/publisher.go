package mqtt

import (
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/washroute/core/model"
)

// JSONPublisher is the publishing side of PahoClient.
type JSONPublisher interface {
	PublishJSON(topic string, v any) error
}

// PlansMessage is the payload published on the plans topic.
type PlansMessage struct {
	MessageID string              `json:"message_id"`
	Timestamp time.Time           `json:"timestamp"`
	Best      model.PlanID        `json:"best"`
	Metrics   []model.PlanMetrics `json:"metrics"`
}

// RoutingMessage is the payload published on the routing topic.
type RoutingMessage struct {
	MessageID string                   `json:"message_id"`
	Timestamp time.Time                `json:"timestamp"`
	State     model.RoutingEngineState `json:"state"`
}

// SnapshotPublisher publishes plan scores and routing state snapshots.
type SnapshotPublisher struct {
	pub          JSONPublisher
	plansTopic   string
	routingTopic string
}

// NewSnapshotPublisher publishes through pub on the topics derived from cfg.
func NewSnapshotPublisher(pub JSONPublisher, cfg Config) *SnapshotPublisher {
	cfg.SetDefaults()
	return &SnapshotPublisher{
		pub:          pub,
		plansTopic:   cfg.Topic(TopicPlans),
		routingTopic: cfg.Topic(TopicRouting),
	}
}

func (s *SnapshotPublisher) PublishPlans(metrics []model.PlanMetrics, best model.PlanID, at time.Time) error {
	return s.pub.PublishJSON(s.plansTopic, PlansMessage{
		MessageID: uuid.NewString(),
		Timestamp: at,
		Best:      best,
		Metrics:   metrics,
	})
}

func (s *SnapshotPublisher) PublishRouting(state model.RoutingEngineState, at time.Time) error {
	return s.pub.PublishJSON(s.routingTopic, RoutingMessage{
		MessageID: uuid.NewString(),
		Timestamp: at,
		State:     state,
	})
}
