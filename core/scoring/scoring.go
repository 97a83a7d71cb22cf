// Package scoring ranks helpers for the Flash (speed and rescue) and
// Premium (quality and trust) strategies.
package scoring

import (
	"strings"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/washroute/core/engagement"
	"github.com/kilianp07/washroute/core/model"
)

// Defaults used when a helper has no history.
const (
	DefaultAvgEngagedMinutes = 50
	DefaultAvgTargetMinutes  = 60
	DefaultRescueEtaSeconds  = 120

	FlashEligibleThreshold  = 90
	PremiumIntegrityStrict  = 0.95
	PremiumNeutralRating    = 5
	NegativeRatingThreshold = 4

	minRescueEta = 10.0
	maxRescueEta = 300.0
)

// NegativeReasons flag a quality complaint in an order rating reason.
var NegativeReasons = []string{"Poor folding", "No fragrance"}

// IsNegativeReason reports whether a rating reason carries a quality complaint.
func IsNegativeReason(reason string) bool {
	for _, r := range NegativeReasons {
		if strings.Contains(reason, r) {
			return true
		}
	}
	return false
}

// IntegritySource looks up the integrity record of a helper.
type IntegritySource interface {
	Lookup(helperID string) (model.HelperIntegrity, bool)
}

// Input is shared by both scorers. Roster resolves order houses and
// laundries; Helpers is the candidate set.
type Input struct {
	Helpers   []model.Helper
	Orders    []model.Order
	Now       time.Time
	Roster    model.Roster
	Routing   model.RoutingEngineState
	Integrity IntegritySource
}

func (in Input) integrity(id string) (model.HelperIntegrity, bool) {
	if in.Integrity == nil {
		return model.HelperIntegrity{}, false
	}
	return in.Integrity.Lookup(id)
}

// FlashStats is the Flash view of a helper.
type FlashStats struct {
	Helper              model.Helper `json:"helper"`
	FoldingScore        float64      `json:"folding_score"`
	RescueScore         float64      `json:"rescue_score"`
	IntegrityScore      float64      `json:"integrity_score"`
	CombinedScore       float64      `json:"combined_score"`
	AvgEngagedMinutes   float64      `json:"avg_engaged_minutes"`
	AvgTargetMinutes    float64      `json:"avg_target_minutes"`
	AvgRescueEtaSeconds float64      `json:"avg_rescue_eta_seconds"`
}

// PremiumStats is the Premium view of a helper.
type PremiumStats struct {
	Helper         model.Helper `json:"helper"`
	NeatnessScore  float64      `json:"neatness_score"`
	IntegrityScore float64      `json:"integrity_score"`
	QualityScore   float64      `json:"quality_score"`
	Strikes        int          `json:"strikes"`
}

// RescueFactor maps a rescue ETA onto [0,1], faster being better.
func RescueFactor(etaSeconds float64) float64 {
	eta := engagement.Clamp(etaSeconds, minRescueEta, maxRescueEta)
	return 1 - (eta-minRescueEta)/(maxRescueEta-minRescueEta)
}

func mean(xs []float64, def float64) float64 {
	if len(xs) == 0 {
		return def
	}
	return floats.Sum(xs) / float64(len(xs))
}

// Flash scores every helper. Only the helper's non-Completed orders feed
// the engaged/target averages.
func Flash(in Input) []FlashStats {
	res := make([]FlashStats, 0, len(in.Helpers))
	for _, h := range in.Helpers {
		var engaged, target []float64
		for _, o := range in.Orders {
			if o.HelperID != h.ID || o.Status.IsTerminal() {
				continue
			}
			p := engagement.ForOrder(o, in.Now, in.Roster, in.Orders)
			engaged = append(engaged, float64(p.EngagedMinutes))
			target = append(target, float64(p.TargetMinutes))
		}
		avgEngaged := mean(engaged, DefaultAvgEngagedMinutes)
		avgTarget := mean(target, DefaultAvgTargetMinutes)

		folding := 1.0
		ratio := 1.0
		if avgTarget > 0 {
			ratio = avgEngaged / avgTarget
		}
		if ratio > 0 {
			folding = 1 / engagement.Clamp(ratio, 0.3, 1.7)
		}

		var etas []float64
		for _, a := range in.Routing.Assignments {
			if a.HelperID != h.ID {
				continue
			}
			if eta, ok := in.Routing.RescueEtaSeconds[a.OrderID]; ok && eta > 0 {
				etas = append(etas, eta)
			}
		}
		avgEta := mean(etas, DefaultRescueEtaSeconds)
		rescue := RescueFactor(avgEta)

		integrity := 1.0
		if rec, ok := in.integrity(h.ID); ok {
			integrity = rec.Score / 100
		}

		res = append(res, FlashStats{
			Helper:              h,
			FoldingScore:        folding,
			RescueScore:         rescue,
			IntegrityScore:      integrity,
			CombinedScore:       0.5*folding + 0.3*rescue + 0.2*integrity,
			AvgEngagedMinutes:   avgEngaged,
			AvgTargetMinutes:    avgTarget,
			AvgRescueEtaSeconds: avgEta,
		})
	}
	return res
}

// Premium scores every helper over its Completed orders.
func Premium(in Input) []PremiumStats {
	res := make([]PremiumStats, 0, len(in.Helpers))
	for _, h := range in.Helpers {
		var total, neat int
		for _, o := range in.Orders {
			if o.HelperID != h.ID || !o.Status.IsTerminal() {
				continue
			}
			total++
			rating := PremiumNeutralRating
			if o.Rating != nil {
				rating = *o.Rating
			}
			if rating >= NegativeRatingThreshold && !IsNegativeReason(o.RatingReason) {
				neat++
			}
		}
		neatness := 1.0
		if total > 0 {
			neatness = float64(neat) / float64(total)
		}
		integrity, strikes := 1.0, 0
		if rec, ok := in.integrity(h.ID); ok {
			integrity, strikes = rec.Score/100, rec.Strikes
		}
		res = append(res, PremiumStats{
			Helper:         h,
			NeatnessScore:  neatness,
			IntegrityScore: integrity,
			QualityScore:   0.6*neatness + 0.4*integrity,
			Strikes:        strikes,
		})
	}
	return res
}

// maxBy is a strict-greater left fold: the earliest candidate wins ties.
func maxBy[T any](items []T, score func(T) float64) (T, bool) {
	var best T
	if len(items) == 0 {
		return best, false
	}
	best = items[0]
	for _, it := range items[1:] {
		if score(it) > score(best) {
			best = it
		}
	}
	return best, true
}

func filter[T any](items []T, keep func(T) bool) []T {
	var res []T
	for _, it := range items {
		if keep(it) {
			res = append(res, it)
		}
	}
	return res
}

// BestFlash picks the top Flash helper, restricted to helpers scoring
// above FlashEligibleThreshold when any exists.
func BestFlash(stats []FlashStats) (FlashStats, bool) {
	pool := filter(stats, func(s FlashStats) bool { return s.CombinedScore*100 > FlashEligibleThreshold })
	if len(pool) == 0 {
		pool = stats
	}
	return maxBy(pool, func(s FlashStats) float64 { return s.CombinedScore })
}

// BestPremium picks the top Premium helper from the strict pool, then the
// strike-free pool, then everyone.
func BestPremium(stats []PremiumStats) (PremiumStats, bool) {
	pool := filter(stats, func(s PremiumStats) bool {
		return s.IntegrityScore > PremiumIntegrityStrict && s.NeatnessScore == 1
	})
	if len(pool) == 0 {
		pool = filter(stats, func(s PremiumStats) bool { return s.Strikes == 0 })
	}
	if len(pool) == 0 {
		pool = stats
	}
	return maxBy(pool, func(s PremiumStats) float64 { return s.QualityScore })
}
