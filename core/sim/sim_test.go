package sim

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/roster"
)

var now = time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

func TestBatchIsReproducible(t *testing.T) {
	r := roster.Default()
	a := NewGenerator(r, NewSource(7)).Batch(DefaultBatchSize, now, false)
	b := NewGenerator(r, NewSource(7)).Batch(DefaultBatchSize, now, false)
	require.Len(t, a, DefaultBatchSize)
	assert.Equal(t, a, b)
}

func TestBatchOrderShape(t *testing.T) {
	r := roster.Default()
	g := NewGenerator(r, NewSource(1))
	orders := g.Batch(200, now, false)
	require.Len(t, orders, 200)

	low := 0
	for i, o := range orders {
		assert.True(t, strings.HasPrefix(o.ID, "ord_"), o.ID)
		assert.Equal(t, model.StatusQueued, o.Status)
		assert.Equal(t, now, o.CreatedAt)
		assert.Equal(t, o.MachineFailed, o.SecondCycleUnlocked)
		_, ok := r.FindHelper(o.HelperID)
		assert.True(t, ok)
		_, ok = r.FindHouse(o.HouseID)
		assert.True(t, ok)
		_, ok = r.FindLaundry(o.LaundryID)
		assert.True(t, ok)
		require.NotNil(t, o.Rating)
		switch *o.Rating {
		case 2:
			low++
			assert.Contains(t, LowRatingReasons[:], o.RatingReason)
		case 5:
			assert.Empty(t, o.RatingReason)
		default:
			t.Fatalf("order %d: unexpected rating %d", i, *o.Rating)
		}
	}
	assert.Greater(t, low, 10)
	assert.Less(t, low, 80)
}

func TestBatchHomeMode(t *testing.T) {
	orders := NewGenerator(roster.Default(), NewSource(3)).Batch(DefaultBatchSize, now, true)
	require.Len(t, orders, DefaultBatchSize)
	for _, o := range orders {
		assert.True(t, o.HomeModeAtCreation)
	}
}

func TestBatchEmptyRoster(t *testing.T) {
	assert.Empty(t, NewGenerator(model.Roster{}, NewSource(1)).Batch(5, now, false))
}

func TestHomeTargetsArePlanarNearestHouses(t *testing.T) {
	r := model.Roster{
		Helpers: []model.Helper{{ID: "h", Coordinates: model.Coordinates{Lng: 0, Lat: 0}}},
		Houses: []model.HouseClient{
			{ID: "far", Coordinates: model.Coordinates{Lng: 1, Lat: 1}},
			{ID: "near", Coordinates: model.Coordinates{Lng: 0.1, Lat: 0}},
		},
	}
	g := NewGenerator(r, NewSource(1))
	c, ok := g.HomeTarget("h")
	require.True(t, ok)
	assert.Equal(t, r.Houses[1].Coordinates, c)
	_, ok = g.HomeTarget("missing")
	assert.False(t, ok)
}

func TestBetween(t *testing.T) {
	g := NewGenerator(roster.Default(), NewSource(5))
	for i := 0; i < 50; i++ {
		d := g.Between(45*time.Second, 75*time.Second)
		assert.GreaterOrEqual(t, d, 45*time.Second)
		assert.LessOrEqual(t, d, 75*time.Second)
	}
	assert.Equal(t, time.Second, g.Between(time.Second, time.Second))
}

func TestBoundsResolve(t *testing.T) {
	assert.Equal(t, Bounds{Initial: 10, Min: 8, Max: 12}, Bounds{}.Resolve(12))
	assert.Equal(t, Bounds{Initial: 3, Min: 3, Max: 3}, Bounds{}.Resolve(3))
	assert.Equal(t, Bounds{Initial: 4, Min: 2, Max: 6}, Bounds{Initial: 4, Min: 2, Max: 6}.Resolve(12))
}

func TestActivityStaysWithinBounds(t *testing.T) {
	r := roster.Default()
	a, entries := NewActivity(r.Helpers, Bounds{}, NewSource(11))
	assert.Len(t, model.ActiveHelpers(entries), 10)

	for i := 0; i < 300; i++ {
		before := entries
		entries = a.Step(entries, now.Add(time.Duration(i)*time.Second))
		n := len(model.ActiveHelpers(entries))
		assert.GreaterOrEqual(t, n, 8)
		assert.LessOrEqual(t, n, 12)
		assert.Len(t, before, 12)
	}
	log := a.Log()
	assert.Len(t, log, ActivityLogCap)
	assert.True(t, log[0].Timestamp.After(log[len(log)-1].Timestamp))
}

func TestActivityAdjustDoesNotMutate(t *testing.T) {
	r := roster.Default()
	a, entries := NewActivity(r.Helpers, Bounds{Initial: 5, Min: 5, Max: 6}, NewSource(2))
	snapshot := append([]model.HelperActivity(nil), entries...)
	next := a.Adjust(entries, now)
	assert.Equal(t, snapshot, entries)
	assert.Len(t, model.ActiveHelpers(next), 6)
	assert.Equal(t, ChangeAdded, a.Log()[0].Type)
}

func TestToggleOnlyActiveHelpers(t *testing.T) {
	a, entries := NewActivity([]model.Helper{{ID: "a"}, {ID: "b"}}, Bounds{Initial: 1, Min: 1, Max: 2}, NewSource(1))
	next := a.Toggle(entries, "a", now)
	assert.Equal(t, model.HelperUnavailable, next[0].Status)
	assert.Equal(t, ChangeStatusChanged, a.Log()[0].Type)
	assert.Equal(t, model.HelperAvailable, a.Log()[0].From)

	same := a.Toggle(next, "b", now)
	assert.Equal(t, next, same)
	assert.Equal(t, model.HelperAvailable, a.Toggle(next, "a", now)[0].Status)
}

func TestStressCollisionPlacement(t *testing.T) {
	r := roster.Default()
	ev := StressCollision("ord_1", r, now)
	assert.Equal(t, "collision_ord_1", ev.ID)
	assert.Equal(t, r.Vehicles[1].ID, ev.VehicleID)
	assert.Equal(t, r.Vehicles[1].Coordinates, ev.Location)

	one := model.Roster{Vehicles: r.Vehicles[:1]}
	assert.Equal(t, r.Vehicles[0].ID, StressCollision("o", one, now).VehicleID)

	laundryOnly := model.Roster{Laundries: r.Laundries}
	ev = StressCollision("o", laundryOnly, now)
	assert.Equal(t, StressFallbackVehicleID, ev.VehicleID)
	assert.Equal(t, r.Laundries[0].Coordinates, ev.Location)

	ev = StressCollision("o", model.Roster{}, now)
	assert.Equal(t, StressFallbackLocation, ev.Location)
}

func TestStressChain(t *testing.T) {
	r := roster.Default()
	state := StressChain(model.NewRoutingEngineState(), "ord_1", r, now)

	assignments := state.AssignmentsFor("ord_1")
	require.Len(t, assignments, 3)
	assert.Equal(t, "helper_01", assignments[0].HelperID)
	assert.Equal(t, "helper_02", assignments[1].HelperID)
	assert.Equal(t, "helper_03", assignments[2].HelperID)
	assert.Equal(t, r.Vehicles[1].ID, assignments[0].VehicleID)
	assert.NotEqual(t, r.Vehicles[1].ID, assignments[2].VehicleID)
	for i, a := range assignments {
		assert.Equal(t, i+1, a.Attempt)
		assert.Equal(t, model.AssignmentCompleted, a.Status)
	}
	assert.Equal(t, model.AssetTransferred, state.Status("ord_1"))
	assert.InDelta(t, 2.25, state.SearchRadiusKm["ord_1"], 1e-9)
	assert.InDelta(t, 2.0, state.RescueBonusMultiplier["ord_1"], 1e-9)
	assert.True(t, state.TrunkUnlocked["ord_1"])
}

func TestStressStepsPool(t *testing.T) {
	steps := StressSteps(roster.Default())
	require.Len(t, steps, 3)
	assert.False(t, steps[0].HelperAtLaundry)
	assert.True(t, steps[2].HelperAtLaundry)
	assert.Len(t, steps[1].Available, 3)
}
