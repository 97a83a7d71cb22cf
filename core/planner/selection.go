package planner

import (
	"math"

	"github.com/kilianp07/washroute/core/geo"
	"github.com/kilianp07/washroute/core/model"
)

// EcoDetourThreshold is the detour ratio under which a triple is preferred.
const EcoDetourThreshold = 0.1

// Selection is the set of entities a plan is evaluated on.
type Selection struct {
	Helper   model.Helper      `json:"helper"`
	Client   model.HouseClient `json:"client"`
	Laundry  model.Laundry     `json:"laundry"`
	VehicleA model.Vehicle     `json:"vehicle_a"`
	VehicleB model.Vehicle     `json:"vehicle_b"`
}

func houseCoords(h model.HouseClient) model.Coordinates { return h.Coordinates }
func laundryCoords(l model.Laundry) model.Coordinates   { return l.Coordinates }
func vehicleCoords(v model.Vehicle) model.Coordinates   { return v.Coordinates }

func nearest[T any](items []T, target model.Coordinates, coords func(T) model.Coordinates) (T, bool) {
	pts := make([]model.Coordinates, len(items))
	for i, it := range items {
		pts[i] = coords(it)
	}
	i := geo.NearestIndex(pts, target)
	if i < 0 {
		var zero T
		return zero, false
	}
	return items[i], true
}

// HomeOf returns the position a helper heads back to: its nearest house,
// or its own position without houses.
func HomeOf(helper model.Helper, houses []model.HouseClient) model.Coordinates {
	if h, ok := nearest(houses, helper.Coordinates, houseCoords); ok {
		return h.Coordinates
	}
	return helper.Coordinates
}

// pick returns the first index in idx present in items.
func pick[T any](items []T, idx ...int) (T, bool) {
	for _, i := range idx {
		if i >= 0 && i < len(items) {
			return items[i], true
		}
	}
	var zero T
	return zero, false
}

// anchoredSelection resolves client and laundry for a helper chosen by a
// scorer: the helper's latest active order when it has one, otherwise the
// house nearest to the helper and the laundry nearest to that house.
// a and b are the vehicle ranks by distance to the helper.
func anchoredSelection(helper model.Helper, r model.Roster, orders []model.Order, a, b int) (Selection, bool) {
	var (
		client     model.HouseClient
		laundry    model.Laundry
		haveClient bool
		haveLaund  bool
	)
	for i := len(orders) - 1; i >= 0; i-- {
		o := orders[i]
		if o.HelperID != helper.ID || o.Status.IsTerminal() {
			continue
		}
		client, haveClient = r.FindHouse(o.HouseID)
		laundry, haveLaund = r.FindLaundry(o.LaundryID)
		break
	}
	if !haveClient {
		if client, haveClient = nearest(r.Houses, helper.Coordinates, houseCoords); !haveClient {
			return Selection{}, false
		}
	}
	if !haveLaund {
		if laundry, haveLaund = nearest(r.Laundries, client.Coordinates, laundryCoords); !haveLaund {
			return Selection{}, false
		}
	}

	sorted := geo.SortByDistance(r.Vehicles, helper.Coordinates, vehicleCoords)
	va, okA := pick(sorted, a, 0)
	if !okA {
		return Selection{}, false
	}
	vb, okB := pick(sorted, b, 1)
	if !okB {
		vb = va
	}
	return Selection{Helper: helper, Client: client, Laundry: laundry, VehicleA: va, VehicleB: vb}, true
}

// DetourRatio is the relative extra distance of serving client then
// laundry before heading home, floored at 0. ok is false when the helper
// already stands at home.
func DetourRatio(helper, client, laundry, home model.Coordinates) (ratio float64, ok bool) {
	direct := geo.DistanceKm(helper, home)
	if direct == 0 {
		return 0, false
	}
	with := geo.DistanceKm(helper, client) + geo.DistanceKm(client, laundry) + geo.DistanceKm(laundry, home)
	return math.Max(0, (with-direct)/direct), true
}

// ecoSelection searches every helper, house and laundry for the smallest
// detour, preferring triples under EcoDetourThreshold.
func ecoSelection(r model.Roster) (Selection, bool) {
	if len(r.Helpers) == 0 || len(r.Houses) == 0 || len(r.Laundries) == 0 {
		return Selection{}, false
	}

	type triple struct {
		helper  model.Helper
		client  model.HouseClient
		laundry model.Laundry
		ratio   float64
	}
	var within, overall *triple
	for _, h := range r.Helpers {
		home := HomeOf(h, r.Houses)
		for _, c := range r.Houses {
			for _, l := range r.Laundries {
				ratio, ok := DetourRatio(h.Coordinates, c.Coordinates, l.Coordinates, home)
				if !ok {
					continue
				}
				t := &triple{helper: h, client: c, laundry: l, ratio: ratio}
				if overall == nil || ratio < overall.ratio {
					overall = t
				}
				if ratio < EcoDetourThreshold && (within == nil || ratio < within.ratio) {
					within = t
				}
			}
		}
	}

	chosen := within
	if chosen == nil {
		chosen = overall
	}
	if chosen == nil {
		return ecoFallback(r)
	}

	sorted := geo.SortByDistance(r.Vehicles, chosen.helper.Coordinates, vehicleCoords)
	va, ok := pick(sorted, 2, 0)
	if !ok {
		return Selection{}, false
	}
	vb, ok := pick(sorted, 3, 1)
	if !ok {
		vb = va
	}
	return Selection{Helper: chosen.helper, Client: chosen.client, Laundry: chosen.laundry, VehicleA: va, VehicleB: vb}, true
}

// ecoFallback is used when every helper stands on its home house.
func ecoFallback(r model.Roster) (Selection, bool) {
	helper, ok1 := pick(r.Helpers, 1, 0)
	client, ok2 := pick(r.Houses, len(r.Houses)-1)
	laundry, ok3 := pick(r.Laundries, 1, 0)
	va, ok4 := pick(r.Vehicles, 2, 0)
	vb, ok5 := pick(r.Vehicles, 3, 1)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Selection{}, false
	}
	return Selection{Helper: helper, Client: client, Laundry: laundry, VehicleA: va, VehicleB: vb}, true
}
