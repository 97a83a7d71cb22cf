// Package engagement estimates how long an order keeps a helper busy and
// how loaded laundries and helpers currently are.
package engagement

import (
	"math"
	"time"

	"github.com/kilianp07/washroute/core/geo"
	"github.com/kilianp07/washroute/core/model"
)

const (
	// DefaultDistanceKm is used when the house or laundry is unknown.
	DefaultDistanceKm = 3.5
	// DefaultLoad is returned when no order is active.
	DefaultLoad = 0.35
	// DefaultRating is assumed for unrated orders.
	DefaultRating = 4

	laundryLoadOffset = 0.2
	helperLoadOffset  = 0.15

	minTargetMinutes = 36
	maxTargetMinutes = 90
	maxProgress      = 1.3
	overrunMinutes   = 10
)

// Input gathers what Compute needs. House and Laundry are optional.
type Input struct {
	Order   model.Order
	Now     time.Time
	House   *model.Coordinates
	Laundry *model.Coordinates
	Orders  []model.Order
}

// Profile is the engagement estimate of an order.
type Profile struct {
	EngagedMinutes  int     `json:"engaged_minutes"`
	TargetMinutes   int     `json:"target_minutes"`
	EfficiencyRatio float64 `json:"efficiency_ratio"`
}

// Round rounds to the nearest integer with halves going up (-2.5 → -2).
func Round(x float64) float64 {
	return math.Floor(x + 0.5)
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func statusFloor(s model.OrderStatus) float64 {
	switch s {
	case model.StatusPickingUp:
		return 0.1
	case model.StatusProcessing:
		return 0.4
	case model.StatusDelivering:
		return 0.8
	case model.StatusCompleted:
		return 1.05
	default:
		return 0
	}
}

// Compute returns the engagement profile of in.Order at in.Now.
func Compute(in Input) Profile {
	distance := DefaultDistanceKm
	if in.House != nil && in.Laundry != nil {
		distance = geo.DistanceKm(*in.House, *in.Laundry)
	}
	load := LaundryLoad(in.Order.LaundryID, in.Orders)

	target := int(Round(minTargetMinutes + distance*4 + (load-DefaultLoad)*40))
	target = int(Clamp(float64(target), minTargetMinutes, maxTargetMinutes))

	rawLinear := 0.0
	if target > 0 {
		elapsed := float64(in.Now.Sub(in.Order.CreatedAt).Milliseconds())
		rawLinear = Clamp(elapsed/(float64(target)*60000), 0, maxProgress)
	}

	progress := math.Max(statusFloor(in.Order.Status), rawLinear)
	rating := DefaultRating
	if in.Order.Rating != nil {
		rating = *in.Order.Rating
	}
	r := Clamp(float64(rating), 1, 5)
	progress *= 1 - ((r-3)/2)*0.12
	progress = Clamp(progress, 0, maxProgress)

	engaged := int(Round(progress * float64(target)))
	if engaged <= 0 && rawLinear > 0 {
		engaged = 1
	}
	engaged = int(Clamp(float64(engaged), 0, float64(target+overrunMinutes)))

	ratio := 1.0
	if target > 0 {
		ratio = Clamp(float64(engaged)/float64(target), 0, 2)
	}
	return Profile{EngagedMinutes: engaged, TargetMinutes: target, EfficiencyRatio: ratio}
}

// LaundryLoad is the share of active orders routed to the laundry plus a
// fixed offset, clamped to [0,1].
func LaundryLoad(laundryID string, orders []model.Order) float64 {
	return load(orders, laundryLoadOffset, func(o model.Order) (bool, bool) {
		return true, o.LaundryID == laundryID
	})
}

// HelperLoad is LaundryLoad for helpers. Only active orders that carry a
// helper take part.
func HelperLoad(helperID string, orders []model.Order) float64 {
	return load(orders, helperLoadOffset, func(o model.Order) (bool, bool) {
		return o.HasHelper(), o.HelperID == helperID
	})
}

func load(orders []model.Order, offset float64, classify func(model.Order) (counted, matching bool)) float64 {
	var active, matching int
	for _, o := range orders {
		if o.Status.IsTerminal() {
			continue
		}
		c, m := classify(o)
		if !c {
			continue
		}
		active++
		if m {
			matching++
		}
	}
	if active == 0 {
		return DefaultLoad
	}
	return Clamp(float64(matching)/float64(active)+offset, 0, 1)
}

// ForOrder resolves the house and laundry of an order in the roster and
// computes its profile.
func ForOrder(o model.Order, now time.Time, roster model.Roster, orders []model.Order) Profile {
	in := Input{Order: o, Now: now, Orders: orders}
	if h, ok := roster.FindHouse(o.HouseID); ok {
		c := h.Coordinates
		in.House = &c
	}
	if l, ok := roster.FindLaundry(o.LaundryID); ok {
		c := l.Coordinates
		in.Laundry = &c
	}
	return Compute(in)
}
