// Package sim drives the simulation: it generates orders, steps helper
// activity and replays the collision stress chain. All randomness of the
// module lives here and comes from a seeded source, so runs are
// reproducible.
package sim

import (
	"fmt"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/kilianp07/washroute/core/geo"
	"github.com/kilianp07/washroute/core/model"
)

const (
	// DefaultBatchSize is the number of orders created per batch.
	DefaultBatchSize = 5
	// HomeModeAttempts bounds the search for an on-route pickup.
	HomeModeAttempts = 8

	machineFailureRate = 0.05
	lowRatingRate      = 0.2
	lowRating          = 2
	highRating         = 5
)

// LowRatingReasons are the complaints attached to low ratings.
var LowRatingReasons = [2]string{"Poor folding", "No fragrance"}

// NewSource returns the seeded source shared by the generators of a run.
func NewSource(seed uint64) rand.Source {
	return rand.NewPCG(seed, seed)
}

// Generator creates random orders over a roster.
type Generator struct {
	roster  model.Roster
	unit    distuv.Uniform
	failure distuv.Bernoulli
	low     distuv.Bernoulli
	coin    distuv.Bernoulli
	homes   map[string]model.Coordinates
}

// NewGenerator builds a Generator drawing from src.
func NewGenerator(r model.Roster, src rand.Source) *Generator {
	return &Generator{
		roster:  r,
		unit:    distuv.Uniform{Min: 0, Max: 1, Src: src},
		failure: distuv.Bernoulli{P: machineFailureRate, Src: src},
		low:     distuv.Bernoulli{P: lowRatingRate, Src: src},
		coin:    distuv.Bernoulli{P: 0.5, Src: src},
		homes:   HomeTargets(r),
	}
}

// HomeTargets maps every helper to the house closest to it on the plane.
func HomeTargets(r model.Roster) map[string]model.Coordinates {
	houses := make([]model.Coordinates, len(r.Houses))
	for i, h := range r.Houses {
		houses[i] = h.Coordinates
	}
	out := make(map[string]model.Coordinates, len(r.Helpers))
	for _, h := range r.Helpers {
		if i := geo.PlanarNearestIndex(houses, h.Coordinates); i >= 0 {
			out[h.ID] = houses[i]
		}
	}
	return out
}

// HomeTarget returns the home target of a helper.
func (g *Generator) HomeTarget(helperID string) (model.Coordinates, bool) {
	c, ok := g.homes[helperID]
	return c, ok
}

func (g *Generator) index(n int) int {
	i := int(g.unit.Rand() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

func pickRandom[T any](g *Generator, items []T) T {
	return items[g.index(len(items))]
}

// Between returns a uniform duration in [lo, hi].
func (g *Generator) Between(lo, hi time.Duration) time.Duration {
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(g.unit.Rand()*float64(hi-lo))
}

// Batch creates up to n orders at now. It returns nothing when the roster
// lacks helpers, houses or laundries.
func (g *Generator) Batch(n int, now time.Time, homeMode bool) []model.Order {
	r := g.roster
	if len(r.Helpers) == 0 || len(r.Houses) == 0 || len(r.Laundries) == 0 {
		return nil
	}
	out := make([]model.Order, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, g.order(i, now, homeMode))
	}
	return out
}

func (g *Generator) order(index int, now time.Time, homeMode bool) model.Order {
	r := g.roster
	helper := pickRandom(g, r.Helpers)
	house := pickRandom(g, r.Houses)
	laundry := pickRandom(g, r.Laundries)

	if homeMode {
		if target, ok := g.homes[helper.ID]; ok {
			for attempt := 0; attempt < HomeModeAttempts; attempt++ {
				h := pickRandom(g, r.Houses)
				l := pickRandom(g, r.Laundries)
				if geo.IsOnRouteHome(helper.Coordinates, target, h.Coordinates) ||
					geo.IsOnRouteHome(helper.Coordinates, target, l.Coordinates) {
					house, laundry = h, l
					break
				}
			}
		}
	}

	failed := g.failure.Rand() == 1
	rating := highRating
	if g.low.Rand() == 1 {
		rating = lowRating
	}
	o := model.Order{
		ID:                  fmt.Sprintf("ord_%d_%d_%d", now.UnixMilli(), index, g.index(1000)),
		CreatedAt:           now,
		Status:              model.StatusQueued,
		HouseID:             house.ID,
		LaundryID:           laundry.ID,
		HelperID:            helper.ID,
		MachineFailed:       failed,
		SecondCycleUnlocked: failed,
		HomeModeAtCreation:  homeMode,
		Rating:              model.Rate(rating),
	}
	if rating < 3 {
		o.RatingReason = LowRatingReasons[int(g.coin.Rand())]
	}
	return o
}
