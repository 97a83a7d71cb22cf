package mqtt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/washroute/core/model"
)

func TestDecodeCollision(t *testing.T) {
	now := time.Now()
	ev, err := DecodeCollision([]byte(`{"order_id":"ord_1","vehicle_id":"vehicle_02","timestamp":1700000000000,"location":[-122.08,37.39]}`), now)
	require.NoError(t, err)
	assert.Equal(t, "ord_1", ev.OrderID)
	assert.Equal(t, "vehicle_02", ev.VehicleID)
	assert.Equal(t, model.Coordinates{Lng: -122.08, Lat: 37.39}, ev.Location)
	assert.Equal(t, int64(1700000000000), ev.Timestamp.UnixMilli())
	assert.True(t, strings.HasPrefix(ev.ID, "collision_"))
}

func TestDecodeCollisionDefaults(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	ev, err := DecodeCollision([]byte(`{"id":"c1","order_id":"o"}`), now)
	require.NoError(t, err)
	assert.Equal(t, "c1", ev.ID)
	assert.Equal(t, now, ev.Timestamp)
}

func TestDecodeCollisionErrors(t *testing.T) {
	_, err := DecodeCollision([]byte(`{`), time.Now())
	assert.Error(t, err)
	_, err = DecodeCollision([]byte(`{"vehicle_id":"v"}`), time.Now())
	assert.Error(t, err)
}

func TestEncodeCollisionRoundTrip(t *testing.T) {
	in := model.CollisionEvent{
		ID:        "collision_ord_1",
		OrderID:   "ord_1",
		VehicleID: "vehicle_02",
		Timestamp: time.UnixMilli(1700000000123),
		Location:  model.Coordinates{Lng: 1, Lat: 2},
	}
	msg := EncodeCollision(in)
	assert.Equal(t, [2]float64{1, 2}, msg.Location)
	assert.Equal(t, int64(1700000000123), msg.Timestamp)
}

type fakeSubscriber struct {
	handlers map[string]func([]byte)
}

func (f *fakeSubscriber) Subscribe(topic string, h func([]byte)) error {
	if f.handlers == nil {
		f.handlers = map[string]func([]byte){}
	}
	f.handlers[topic] = h
	return nil
}

func TestSubscribeCollisionsDropsMalformed(t *testing.T) {
	sub := &fakeSubscriber{}
	var got []model.CollisionEvent
	require.NoError(t, SubscribeCollisions(sub, "washroute/collisions", func(ev model.CollisionEvent) {
		got = append(got, ev)
	}, nil))

	h := sub.handlers["washroute/collisions"]
	require.NotNil(t, h)
	h([]byte(`not json`))
	h([]byte(`{"order_id":"ord_7","vehicle_id":"vehicle_01","location":[0,0]}`))

	require.Len(t, got, 1)
	assert.Equal(t, "ord_7", got[0].OrderID)
}
