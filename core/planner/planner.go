// Package planner evaluates the Flash, Eco and Premium dispatch plans and
// blends their sub-scores into a composite ranking.
package planner

import (
	"math"
	"time"

	"github.com/kilianp07/washroute/core/engagement"
	"github.com/kilianp07/washroute/core/geo"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/scoring"
)

const (
	// AverageSpeedKmh converts route length to minutes.
	AverageSpeedKmh = 30.0

	flashMinutesFactor = 0.85
	flashEffLow        = 0.95
	flashEffHigh       = 0.99

	historyBonusStep = 0.02
	historyBonusCap  = 0.08
	minEfficiency    = 0.6
	maxEfficiency    = 0.98

	defaultGuarantee = 0.5
	ecoDetourScale   = 0.1
	planDetourScale  = 0.3
)

// Tuning holds the cross-plan heuristics applied after the composite
// blend. They tilt ties between plans rather than measure anything.
type Tuning struct {
	// NudgeThreshold is the Premium quality minus Flash combined gap above
	// which the leading plan receives NudgeBonus.
	NudgeThreshold float64
	NudgeBonus     float64
	// RaisePremiumCustody lifts Premium's custody score to the best custody
	// score of all plans in the final pass.
	RaisePremiumCustody bool
}

// DefaultTuning returns the stock heuristics.
func DefaultTuning() Tuning {
	return Tuning{NudgeThreshold: 0.05, NudgeBonus: 0.08, RaisePremiumCustody: true}
}

// Input is everything a scoring pass reads.
type Input struct {
	Roster        model.Roster
	Orders        []model.Order
	Now           time.Time
	Routing       model.RoutingEngineState
	Integrity     scoring.IntegritySource
	History       []model.PlanHistoryEntry
	Weights       model.Weights
	ActiveHelpers int
}

// Result is the outcome of a scoring pass. Best and LowestGuarantee are
// empty when no plan could be evaluated.
type Result struct {
	Metrics         []model.PlanMetrics        `json:"metrics"`
	Selections      map[model.PlanID]Selection `json:"selections"`
	BestFlash       *scoring.FlashStats        `json:"best_flash,omitempty"`
	BestPremium     *scoring.PremiumStats      `json:"best_premium,omitempty"`
	Best            model.PlanID               `json:"best"`
	LowestGuarantee model.PlanID               `json:"lowest_guarantee"`
	PremiumTrust    *float64                   `json:"premium_trust,omitempty"`
}

// Metric returns the metrics of one plan.
func (r Result) Metric(id model.PlanID) (model.PlanMetrics, bool) {
	for _, m := range r.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return model.PlanMetrics{}, false
}

// Planner computes plan metrics with a fixed tuning.
type Planner struct {
	tuning Tuning
}

// New returns a Planner using t.
func New(t Tuning) *Planner {
	return &Planner{tuning: t}
}

// Compute runs a scoring pass with DefaultTuning.
func Compute(in Input) Result {
	return New(DefaultTuning()).Compute(in)
}

// BaseEfficiency is the plan efficiency before any Flash rescale. Every
// prior selection of the plan adds a small bonus.
func BaseEfficiency(plan model.PlanID, history []model.PlanHistoryEntry) float64 {
	base := 0.86
	switch plan {
	case model.PlanEco:
		base = 0.8
	case model.PlanPremium:
		base = 0.9
	}
	count := 0
	for _, h := range history {
		if h.Plan == plan {
			count++
		}
	}
	bonus := math.Min(historyBonusCap, float64(count)*historyBonusStep)
	return engagement.Clamp(base+bonus, minEfficiency, maxEfficiency)
}

// GuaranteeAdjustment scales the detour ratio of a selection into [0,1].
func GuaranteeAdjustment(plan model.PlanID, sel Selection, houses []model.HouseClient) float64 {
	home := HomeOf(sel.Helper, houses)
	ratio, ok := DetourRatio(sel.Helper.Coordinates, sel.Client.Coordinates, sel.Laundry.Coordinates, home)
	if !ok {
		return defaultGuarantee
	}
	scale := planDetourScale
	if plan == model.PlanEco {
		scale = ecoDetourScale
	}
	return engagement.Clamp(ratio/scale, 0, 1)
}

// Compute evaluates every plan whose entities can be selected.
func (p *Planner) Compute(in Input) Result {
	sin := scoring.Input{
		Helpers:   in.Roster.Helpers,
		Orders:    in.Orders,
		Now:       in.Now,
		Roster:    in.Roster,
		Routing:   in.Routing,
		Integrity: in.Integrity,
	}
	flashStats := scoring.Flash(sin)
	premiumStats := scoring.Premium(sin)

	res := Result{Selections: map[model.PlanID]Selection{}}
	if s, ok := scoring.BestFlash(flashStats); ok {
		res.BestFlash = &s
	}
	if s, ok := scoring.BestPremium(premiumStats); ok {
		res.BestPremium = &s
	}
	res.PremiumTrust = premiumTrust(premiumStats, in.Integrity)

	for _, plan := range model.AllPlans {
		sel, ok := p.selectEntities(plan, in, res)
		if !ok {
			continue
		}
		res.Selections[plan] = sel
		res.Metrics = append(res.Metrics, p.measure(plan, sel, in, res.BestFlash))
	}
	if len(res.Metrics) == 0 {
		return res
	}

	res.Metrics = p.blend(res.Metrics, in, res.BestFlash, res.BestPremium)
	res.Best, res.LowestGuarantee = rank(res.Metrics)
	return res
}

func (p *Planner) selectEntities(plan model.PlanID, in Input, res Result) (Selection, bool) {
	r := in.Roster
	switch plan {
	case model.PlanFlash:
		if res.BestFlash == nil {
			return Selection{}, false
		}
		return anchoredSelection(res.BestFlash.Helper, r, in.Orders, 0, 1)
	case model.PlanEco:
		return ecoSelection(r)
	case model.PlanPremium:
		if res.BestPremium == nil {
			return Selection{}, false
		}
		return anchoredSelection(res.BestPremium.Helper, r, in.Orders, 4, 5)
	}
	return Selection{}, false
}

// Legs returns the five canonical legs of a selection.
func Legs(sel Selection) [][2]model.Coordinates {
	return [][2]model.Coordinates{
		{sel.VehicleA.Coordinates, sel.Helper.Coordinates},
		{sel.Helper.Coordinates, sel.Laundry.Coordinates},
		{sel.VehicleB.Coordinates, sel.Client.Coordinates},
		{sel.Client.Coordinates, sel.Laundry.Coordinates},
		{sel.Laundry.Coordinates, sel.Client.Coordinates},
	}
}

func (p *Planner) measure(plan model.PlanID, sel Selection, in Input, bestFlash *scoring.FlashStats) model.PlanMetrics {
	var total float64
	for _, leg := range Legs(sel) {
		total += geo.DistanceKm(leg[0], leg[1])
	}
	minutes := total / AverageSpeedKmh * 60
	efficiency := BaseEfficiency(plan, in.History)

	if plan == model.PlanFlash && bestFlash != nil {
		effBase := engagement.Clamp(bestFlash.CombinedScore, 0.8, 1)
		scaled := flashEffLow + (effBase-0.8)/0.2*(flashEffHigh-flashEffLow)
		efficiency = engagement.Clamp(scaled, flashEffLow, flashEffHigh)
		baseline := minutes
		if bestFlash.AvgEngagedMinutes > 0 {
			baseline = bestFlash.AvgEngagedMinutes
		}
		minutes = math.Min(minutes, baseline*flashMinutesFactor)
	}

	return model.PlanMetrics{
		ID:                  plan,
		Label:               string(plan),
		TotalDistanceKm:     total,
		EstimatedMinutes:    minutes,
		LaundryLoad:         engagement.LaundryLoad(sel.Laundry.ID, in.Orders),
		HelperLoad:          engagement.HelperLoad(sel.Helper.ID, in.Orders),
		Efficiency:          efficiency,
		GuaranteeAdjustment: GuaranteeAdjustment(plan, sel, in.Roster.Houses),
	}
}

// blend is the cross-plan composite pass. It returns fresh metrics.
func (p *Planner) blend(metrics []model.PlanMetrics, in Input, bestFlash *scoring.FlashStats, bestPremium *scoring.PremiumStats) []model.PlanMetrics {
	minD, maxD := metrics[0].TotalDistanceKm, metrics[0].TotalDistanceKm
	for _, m := range metrics[1:] {
		minD = math.Min(minD, m.TotalDistanceKm)
		maxD = math.Max(maxD, m.TotalDistanceKm)
	}
	distanceWeight, efficiencyWeight := in.Weights.Normalized()
	activeRatio := 0.0
	if n := len(in.Roster.Helpers); n > 0 {
		activeRatio = float64(in.ActiveHelpers) / float64(n)
	}

	out := make([]model.PlanMetrics, len(metrics))
	for i, m := range metrics {
		distanceScore := 1.0
		if maxD != minD {
			distanceScore = 1 - (m.TotalDistanceKm-minD)/(maxD-minD)
		}
		avgLoad := (m.LaundryLoad + m.HelperLoad) / 2
		custody := engagement.Clamp(0.6*distanceScore+0.4*(1-avgLoad), 0, 1)
		recovery := engagement.Clamp(0.5*activeRatio+0.5*(1-avgLoad), 0, 1)
		if m.ID == model.PlanFlash && bestFlash != nil {
			recovery = math.Max(recovery, scoring.RescueFactor(bestFlash.AvgRescueEtaSeconds))
		}
		if m.ID == model.PlanPremium && bestPremium != nil {
			custody = math.Max(custody, bestPremium.QualityScore)
		}

		composite := 0.4*custody + 0.4*recovery +
			0.1*distanceWeight*distanceScore + 0.1*efficiencyWeight*m.Efficiency
		if m.ID == model.PlanEco {
			composite = 0.7*composite + 0.3*(1-m.GuaranteeAdjustment)
		}
		if bestFlash != nil && bestPremium != nil {
			diff := bestPremium.QualityScore - bestFlash.CombinedScore
			if (diff > p.tuning.NudgeThreshold && m.ID == model.PlanPremium) ||
				(diff < -p.tuning.NudgeThreshold && m.ID == model.PlanFlash) {
				composite = math.Min(1, composite+p.tuning.NudgeBonus)
			}
		}

		m.ChainOfCustodyScore = custody
		m.FaultRecoveryScore = recovery
		m.CompositeScore = engagement.Clamp(composite, 0, 1)
		out[i] = m
	}

	if p.tuning.RaisePremiumCustody {
		maxCustody := 0.0
		for _, m := range out {
			maxCustody = math.Max(maxCustody, m.ChainOfCustodyScore)
		}
		for i := range out {
			if out[i].ID == model.PlanPremium {
				out[i].ChainOfCustodyScore = math.Min(1, math.Max(out[i].ChainOfCustodyScore, maxCustody))
			}
		}
	}
	return out
}

func rank(metrics []model.PlanMetrics) (best, lowestGuarantee model.PlanID) {
	b, l := metrics[0], metrics[0]
	for _, m := range metrics[1:] {
		if m.CompositeScore > b.CompositeScore {
			b = m
		}
		if m.GuaranteeAdjustment < l.GuaranteeAdjustment {
			l = m
		}
	}
	return b.ID, l.ID
}

// premiumTrust is the integrity score of the best strike-free Premium
// helper, nil when that helper has no record.
func premiumTrust(stats []scoring.PremiumStats, src scoring.IntegritySource) *float64 {
	if len(stats) == 0 || src == nil {
		return nil
	}
	pool := make([]scoring.PremiumStats, 0, len(stats))
	for _, s := range stats {
		if s.Strikes == 0 {
			pool = append(pool, s)
		}
	}
	if len(pool) == 0 {
		pool = stats
	}
	best := pool[0]
	for _, s := range pool[1:] {
		if s.QualityScore > best.QualityScore {
			best = s
		}
	}
	rec, ok := src.Lookup(best.Helper.ID)
	if !ok {
		return nil
	}
	return &rec.Score
}
