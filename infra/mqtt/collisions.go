package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/infra/logger"
)

// CollisionMessage is the wire form of a collision report. Timestamp is in
// Unix milliseconds and Location is [lng, lat].
type CollisionMessage struct {
	ID        string     `json:"id,omitempty"`
	OrderID   string     `json:"order_id"`
	VehicleID string     `json:"vehicle_id"`
	Timestamp int64      `json:"timestamp"`
	Location  [2]float64 `json:"location"`
}

// DecodeCollision parses a collision payload. A missing id is generated and
// a missing timestamp defaults to now.
func DecodeCollision(payload []byte, now time.Time) (model.CollisionEvent, error) {
	var m CollisionMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return model.CollisionEvent{}, fmt.Errorf("decode collision: %w", err)
	}
	if m.OrderID == "" {
		return model.CollisionEvent{}, fmt.Errorf("decode collision: order_id is required")
	}
	ev := model.CollisionEvent{
		ID:        m.ID,
		OrderID:   m.OrderID,
		VehicleID: m.VehicleID,
		Timestamp: now,
		Location:  model.Coordinates{Lng: m.Location[0], Lat: m.Location[1]},
	}
	if ev.ID == "" {
		ev.ID = "collision_" + uuid.NewString()
	}
	if m.Timestamp > 0 {
		ev.Timestamp = time.UnixMilli(m.Timestamp)
	}
	return ev, nil
}

// EncodeCollision is the inverse of DecodeCollision.
func EncodeCollision(ev model.CollisionEvent) CollisionMessage {
	return CollisionMessage{
		ID:        ev.ID,
		OrderID:   ev.OrderID,
		VehicleID: ev.VehicleID,
		Timestamp: ev.Timestamp.UnixMilli(),
		Location:  ev.Location.Pair(),
	}
}

// Subscriber is the subscribing side of PahoClient.
type Subscriber interface {
	Subscribe(topic string, handler func(payload []byte)) error
}

// SubscribeCollisions decodes collision reports on topic and passes them to
// handle. Malformed payloads are logged and dropped.
func SubscribeCollisions(sub Subscriber, topic string, handle func(model.CollisionEvent), log logger.Logger) error {
	if log == nil {
		log = logger.NopLogger{}
	}
	return sub.Subscribe(topic, func(payload []byte) {
		ev, err := DecodeCollision(payload, time.Now())
		if err != nil {
			log.Warnf("drop collision message: %v", err)
			return
		}
		handle(ev)
	})
}
