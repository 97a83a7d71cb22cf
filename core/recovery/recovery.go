// Package recovery runs the re-dispatch state machine triggered by vehicle
// incidents. Transitions take the previous aggregate and return a new one.
package recovery

import (
	"fmt"
	"math"
	"slices"

	"github.com/kilianp07/washroute/core/engagement"
	"github.com/kilianp07/washroute/core/geo"
	"github.com/kilianp07/washroute/core/model"
)

const (
	DefaultSearchRadiusKm = 1.0
	DefaultBonus          = 1.0
	MaxSearchRadiusKm     = 25.0
	MaxBonus              = 5.0
	RadiusGrowth          = 1.5
	BonusStep             = 0.5

	RescueSpeedKmh   = 40.0
	MinRescueEta     = 5.0
	UnlockDistanceKm = 0.01
)

// Options qualify a collision. HelperID is the requested rescuer;
// Available is the activity roster used for substitution; Roster resolves
// helper and vehicle positions.
type Options struct {
	HelperID        string
	HelperAtLaundry bool
	Available       []model.HelperActivity
	Roster          model.Roster
}

// AssignmentID formats the id of a dispatch assignment.
func AssignmentID(orderID, helperID, vehicleID string, attempt int) string {
	return fmt.Sprintf("dispatch_%s_%s_%s_%d", orderID, helperID, vehicleID, attempt)
}

// HandleCollision appends one EnRoute assignment for ev.OrderID and updates
// the asset status, escalation parameters, rescue ETA and trunk lock.
//
// A collision on an order already Transferred is not a no-op: it still
// appends an assignment with the next attempt number, so attempts stay
// consecutive, but the status, search radius and bonus are left as they
// are.
func HandleCollision(prev model.RoutingEngineState, ev model.CollisionEvent, opts Options) model.RoutingEngineState {
	existing := prev.AssignmentsFor(ev.OrderID)
	attempt := len(existing) + 1
	status := prev.Status(ev.OrderID)

	next := prev.Clone()
	radius, ok := next.SearchRadiusKm[ev.OrderID]
	if !ok {
		radius = DefaultSearchRadiusKm
	}
	bonus, ok := next.RescueBonusMultiplier[ev.OrderID]
	if !ok {
		bonus = DefaultBonus
	}

	switch {
	case status == model.AssetTransferred:
	case len(existing) == 0:
		status = model.AssetInRescue
		next.SearchRadiusKm[ev.OrderID] = radius
		next.RescueBonusMultiplier[ev.OrderID] = bonus
	default:
		status = model.AssetSearchingForNewHelper
		next.SearchRadiusKm[ev.OrderID] = math.Min(radius*RadiusGrowth, MaxSearchRadiusKm)
		next.RescueBonusMultiplier[ev.OrderID] = math.Min(bonus+BonusStep, MaxBonus)
	}
	next.AssetStatus[ev.OrderID] = status

	helperID := selectHelper(opts.HelperID, existing, opts.Available)
	helper, found := opts.Roster.FindHelper(helperID)

	vehicleID := ev.VehicleID
	if opts.HelperAtLaundry && found {
		if v, ok := nearestOtherVehicle(opts.Roster.Vehicles, ev.VehicleID, helper.Coordinates); ok {
			vehicleID = v.ID
		}
	}

	next.Assignments = append(next.Assignments, model.DispatchAssignment{
		ID:        AssignmentID(ev.OrderID, helperID, vehicleID, attempt),
		OrderID:   ev.OrderID,
		HelperID:  helperID,
		VehicleID: vehicleID,
		Attempt:   attempt,
		Status:    model.AssignmentEnRoute,
	})

	if found {
		d := geo.DistanceKm(helper.Coordinates, ev.Location)
		next.RescueEtaSeconds[ev.OrderID] = RescueEta(d)
		if d < UnlockDistanceKm {
			next.TrunkUnlocked[ev.OrderID] = true
		}
	}
	return next
}

// RescueEta converts a distance into a rescue ETA in seconds.
func RescueEta(distanceKm float64) float64 {
	return math.Max(MinRescueEta, engagement.Round(distanceKm/RescueSpeedKmh*3600))
}

// selectHelper keeps the requested helper unless it already served the
// order, in which case the first active helper not yet used takes over,
// then the first active helper at all.
func selectHelper(requested string, existing []model.DispatchAssignment, available []model.HelperActivity) string {
	used := make([]string, 0, len(existing))
	for _, a := range existing {
		used = append(used, a.HelperID)
	}
	if !slices.Contains(used, requested) {
		return requested
	}
	active := model.ActiveHelpers(available)
	for _, h := range active {
		if !slices.Contains(used, h.ID) {
			return h.ID
		}
	}
	if len(active) > 0 {
		return active[0].ID
	}
	return requested
}

func nearestOtherVehicle(vehicles []model.Vehicle, excluded string, target model.Coordinates) (model.Vehicle, bool) {
	candidates := make([]model.Coordinates, 0, len(vehicles))
	pool := make([]model.Vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if v.ID == excluded {
			continue
		}
		pool = append(pool, v)
		candidates = append(candidates, v.Coordinates)
	}
	i := geo.NearestIndex(candidates, target)
	if i < 0 {
		return model.Vehicle{}, false
	}
	return pool[i], true
}

// MarkAssetTransferCompleted closes every assignment of the order, marks
// the goods Transferred and unlocks the trunk.
func MarkAssetTransferCompleted(prev model.RoutingEngineState, orderID string) model.RoutingEngineState {
	next := prev.Clone()
	for i := range next.Assignments {
		if next.Assignments[i].OrderID == orderID {
			next.Assignments[i].Status = model.AssignmentCompleted
		}
	}
	next.AssetStatus[orderID] = model.AssetTransferred
	next.TrunkUnlocked[orderID] = true
	return next
}
