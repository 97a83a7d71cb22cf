package recovery

import (
	"testing"
	"time"

	"github.com/kilianp07/washroute/core/model"
)

func testRoster() model.Roster {
	return model.Roster{
		Helpers: []model.Helper{
			{ID: "helper_01", Coordinates: model.Coordinates{Lng: -122.0729, Lat: 37.3895}},
			{ID: "helper_02", Coordinates: model.Coordinates{Lng: -122.0938, Lat: 37.3973}},
			{ID: "helper_03", Coordinates: model.Coordinates{Lng: -122.0824, Lat: 37.3739}},
		},
		Vehicles: []model.Vehicle{
			{ID: "vehicle_01", Coordinates: model.Coordinates{Lng: -122.079, Lat: 37.3925}},
			{ID: "vehicle_02", Coordinates: model.Coordinates{Lng: -122.0675, Lat: 37.3802}},
			{ID: "vehicle_06", Coordinates: model.Coordinates{Lng: -122.074, Lat: 37.395}},
		},
	}
}

func activity(ids ...string) []model.HelperActivity {
	var res []model.HelperActivity
	for _, id := range ids {
		res = append(res, model.HelperActivity{ID: id, Status: model.HelperAvailable, Active: true})
	}
	return res
}

func collision(order string) model.CollisionEvent {
	return model.CollisionEvent{
		ID:        "collision_" + order,
		OrderID:   order,
		VehicleID: "vehicle_02",
		Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		Location:  model.Coordinates{Lng: -122.0675, Lat: 37.3802},
	}
}

func TestFirstCollisionStartsRescue(t *testing.T) {
	prev := model.NewRoutingEngineState()
	opts := Options{HelperID: "helper_01", Available: activity("helper_01", "helper_02"), Roster: testRoster()}
	next := HandleCollision(prev, collision("O1"), opts)

	if next.AssetStatus["O1"] != model.AssetInRescue {
		t.Fatalf("expected InRescue, got %s", next.AssetStatus["O1"])
	}
	if len(next.Assignments) != 1 {
		t.Fatalf("expected one assignment, got %d", len(next.Assignments))
	}
	a := next.Assignments[0]
	if a.Attempt != 1 || a.Status != model.AssignmentEnRoute || a.HelperID != "helper_01" || a.VehicleID != "vehicle_02" {
		t.Fatalf("unexpected assignment %+v", a)
	}
	if a.ID != "dispatch_O1_helper_01_vehicle_02_1" {
		t.Fatalf("unexpected id %s", a.ID)
	}
	if next.SearchRadiusKm["O1"] != 1 || next.RescueBonusMultiplier["O1"] != 1 {
		t.Fatalf("parameters must stay at defaults")
	}
	if next.RescueEtaSeconds["O1"] < MinRescueEta {
		t.Fatalf("eta below floor: %v", next.RescueEtaSeconds["O1"])
	}
	if len(prev.Assignments) != 0 || len(prev.AssetStatus) != 0 {
		t.Fatalf("previous state mutated")
	}
}

func TestSecondCollisionEscalates(t *testing.T) {
	opts := Options{HelperID: "helper_01", Available: activity("helper_01", "helper_02"), Roster: testRoster()}
	first := HandleCollision(model.NewRoutingEngineState(), collision("O1"), opts)
	second := HandleCollision(first, collision("O1"), opts)

	if second.AssetStatus["O1"] != model.AssetSearchingForNewHelper {
		t.Fatalf("expected SearchingForNewHelper, got %s", second.AssetStatus["O1"])
	}
	if second.SearchRadiusKm["O1"] != 1.5 || second.RescueBonusMultiplier["O1"] != 1.5 {
		t.Fatalf("unexpected escalation %v %v", second.SearchRadiusKm["O1"], second.RescueBonusMultiplier["O1"])
	}
	if len(second.Assignments) != 2 || second.Assignments[1].Attempt != 2 {
		t.Fatalf("expected attempt 2, got %+v", second.Assignments)
	}
	if second.Assignments[1].HelperID != "helper_02" {
		t.Fatalf("used helper must be substituted, got %s", second.Assignments[1].HelperID)
	}
	if first.AssetStatus["O1"] != model.AssetInRescue || len(first.Assignments) != 1 {
		t.Fatalf("previous state mutated")
	}
}

func TestEscalationCaps(t *testing.T) {
	opts := Options{HelperID: "helper_01", Roster: testRoster()}
	st := model.NewRoutingEngineState()
	for i := 1; i <= 20; i++ {
		st = HandleCollision(st, collision("O1"), opts)
		as := st.AssignmentsFor("O1")
		if as[len(as)-1].Attempt != i {
			t.Fatalf("attempt %d expected, got %d", i, as[len(as)-1].Attempt)
		}
	}
	if st.SearchRadiusKm["O1"] != MaxSearchRadiusKm || st.RescueBonusMultiplier["O1"] != MaxBonus {
		t.Fatalf("caps not applied: %v %v", st.SearchRadiusKm["O1"], st.RescueBonusMultiplier["O1"])
	}
}

func TestHelperFallbackWhenAllUsed(t *testing.T) {
	opts := Options{HelperID: "helper_01", Available: activity("helper_01"), Roster: testRoster()}
	st := HandleCollision(model.NewRoutingEngineState(), collision("O1"), opts)
	st = HandleCollision(st, collision("O1"), opts)
	if got := st.Assignments[1].HelperID; got != "helper_01" {
		t.Fatalf("expected fallback to first active helper, got %s", got)
	}
}

func TestVehicleSwapAtLaundry(t *testing.T) {
	opts := Options{HelperID: "helper_01", HelperAtLaundry: true, Roster: testRoster()}
	st := HandleCollision(model.NewRoutingEngineState(), collision("O1"), opts)
	// helper_01 is closest to vehicle_06 once vehicle_02 is excluded
	if got := st.Assignments[0].VehicleID; got != "vehicle_06" {
		t.Fatalf("expected vehicle_06, got %s", got)
	}

	opts.HelperID = "ghost"
	st = HandleCollision(model.NewRoutingEngineState(), collision("O2"), opts)
	if got := st.Assignments[0].VehicleID; got != "vehicle_02" {
		t.Fatalf("unknown helper must keep the incident vehicle, got %s", got)
	}
	if _, ok := st.RescueEtaSeconds["O2"]; ok {
		t.Fatalf("eta must not be set for unknown helper")
	}
}

func TestTrunkUnlocksWhenHelperOnScene(t *testing.T) {
	roster := testRoster()
	ev := collision("O1")
	ev.Location = roster.Helpers[0].Coordinates
	st := HandleCollision(model.NewRoutingEngineState(), ev, Options{HelperID: "helper_01", Roster: roster})
	if !st.TrunkUnlocked["O1"] {
		t.Fatalf("expected trunk unlocked")
	}
	if st.RescueEtaSeconds["O1"] != MinRescueEta {
		t.Fatalf("expected floor eta, got %v", st.RescueEtaSeconds["O1"])
	}
}

func TestTransferredIsStable(t *testing.T) {
	opts := Options{HelperID: "helper_01", Available: activity("helper_01", "helper_02", "helper_03"), Roster: testRoster()}
	st := HandleCollision(model.NewRoutingEngineState(), collision("O1"), opts)
	st = HandleCollision(st, collision("O1"), opts)
	done := MarkAssetTransferCompleted(st, "O1")
	for _, a := range done.Assignments {
		if a.Status != model.AssignmentCompleted {
			t.Fatalf("assignment not completed: %+v", a)
		}
	}
	if !done.TrunkUnlocked["O1"] {
		t.Fatalf("trunk must be unlocked")
	}
	radius := done.SearchRadiusKm["O1"]
	after := HandleCollision(done, collision("O1"), opts)
	after = HandleCollision(after, collision("O1"), opts)
	if after.AssetStatus["O1"] != model.AssetTransferred {
		t.Fatalf("transferred status regressed to %s", after.AssetStatus["O1"])
	}
	if after.SearchRadiusKm["O1"] != radius {
		t.Fatalf("parameters changed after transfer")
	}
	if got, want := len(after.Assignments), len(done.Assignments)+2; got != want {
		t.Fatalf("expected %d assignments after transfer, got %d", want, got)
	}
	for i, a := range after.AssignmentsFor("O1") {
		if a.Attempt != i+1 {
			t.Fatalf("attempt %d at position %d", a.Attempt, i)
		}
	}
	if st.AssetStatus["O1"] == model.AssetTransferred {
		t.Fatalf("previous state mutated")
	}
}

func TestRescueEta(t *testing.T) {
	if got := RescueEta(0); got != 5 {
		t.Fatalf("expected 5, got %v", got)
	}
	if got := RescueEta(2); got != 180 {
		t.Fatalf("expected 180, got %v", got)
	}
}
