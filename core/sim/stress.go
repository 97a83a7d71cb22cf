package sim

import (
	"time"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/recovery"
)

// Fallbacks used when the roster cannot place the stress collision.
const (
	StressFallbackVehicleID = "vehicle_02"
)

// StressFallbackLocation is used when the roster has neither vehicles nor
// laundries.
var StressFallbackLocation = model.Coordinates{Lng: -122.08, Lat: 37.39}

// StressHelpers is the fixed rescue pool of the stress chain.
func StressHelpers() []model.HelperActivity {
	return []model.HelperActivity{
		{ID: "helper_01", Status: model.HelperAvailable, Active: true},
		{ID: "helper_02", Status: model.HelperAvailable, Active: true},
		{ID: "helper_03", Status: model.HelperAvailable, Active: true},
	}
}

// StressCollision builds the collision injected for orderID: it hits the
// second vehicle of the roster, or the first one when there is only one.
func StressCollision(orderID string, r model.Roster, now time.Time) model.CollisionEvent {
	ev := model.CollisionEvent{
		ID:        "collision_" + orderID,
		OrderID:   orderID,
		VehicleID: StressFallbackVehicleID,
		Timestamp: now,
		Location:  StressFallbackLocation,
	}
	var vehicle *model.Vehicle
	switch {
	case len(r.Vehicles) > 1:
		vehicle = &r.Vehicles[1]
	case len(r.Vehicles) == 1:
		vehicle = &r.Vehicles[0]
	}
	switch {
	case vehicle != nil:
		ev.VehicleID = vehicle.ID
		ev.Location = vehicle.Coordinates
	case len(r.Laundries) > 0:
		ev.Location = r.Laundries[0].Coordinates
	}
	return ev
}

// StressSteps returns the three recovery steps of the chain: the first
// helper, the second helper, then the first helper again from a laundry.
func StressSteps(r model.Roster) []recovery.Options {
	pool := StressHelpers()
	return []recovery.Options{
		{HelperID: "helper_01", Available: pool, Roster: r},
		{HelperID: "helper_02", Available: pool, Roster: r},
		{HelperID: "helper_01", HelperAtLaundry: true, Available: pool, Roster: r},
	}
}

// StressChain applies the whole chain to state and completes the transfer.
func StressChain(state model.RoutingEngineState, orderID string, r model.Roster, now time.Time) model.RoutingEngineState {
	ev := StressCollision(orderID, r, now)
	for _, opts := range StressSteps(r) {
		state = recovery.HandleCollision(state, ev, opts)
	}
	return recovery.MarkAssetTransferCompleted(state, orderID)
}
