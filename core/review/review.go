// Package review builds the per-order summary shown to operators.
package review

import (
	"time"

	"github.com/kilianp07/washroute/core/engagement"
	"github.com/kilianp07/washroute/core/guarantee"
	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/scoring"
)

// InefficiencyRatio is the efficiency ratio above which a running order is
// flagged.
const InefficiencyRatio = 1.1

// Personas describe the helper of an order.
const (
	PersonaQualityCertified = "Quality Certified"
	PersonaEfficiencyExpert = "Efficiency Expert"
	PersonaUnassigned       = "Unassigned"
)

// Stage is the coarse progress label of an order.
type Stage string

const (
	StageCompleted  Stage = "Completed"
	StageRescue     Stage = "En route (rescue)"
	StageWashing    Stage = "Washing"
	StageDrying     Stage = "Drying"
	StageFolding    Stage = "Folding"
	StageDelivering Stage = "Delivering"
)

var taglines = map[model.PlanID]string{
	model.PlanFlash:   "Priority Rescue Ready",
	model.PlanEco:     "Home-Path Optimized",
	model.PlanPremium: "High-Quality Custody Path",
}

// Card is the review of one order.
type Card struct {
	OrderID              string             `json:"order_id"`
	Profile              engagement.Profile `json:"profile"`
	WashStandardMinutes  int                `json:"wash_standard_minutes"`
	DryStandardMinutes   int                `json:"dry_standard_minutes"`
	Stage                Stage              `json:"stage"`
	RemainingMinutes     *int               `json:"remaining_minutes,omitempty"`
	InefficiencyDetected bool               `json:"inefficiency_detected"`
	Guarantee            guarantee.Display  `json:"guarantee"`
	RoutedVia            model.PlanID       `json:"routed_via"`
	Tagline              string             `json:"tagline"`
	HelperID             string             `json:"helper_id,omitempty"`
	Persona              string             `json:"persona"`
}

// Review summarises order o at now.
func Review(o model.Order, now time.Time, roster model.Roster, orders []model.Order, routing model.RoutingEngineState, ledger scoring.IntegritySource) Card {
	p := engagement.ForOrder(o, now, roster, orders)
	wash, dry := guarantee.SplitStandard(p.TargetMinutes)
	asset := routing.Status(o.ID)

	raw := guarantee.Adjustment(p.EngagedMinutes, p.TargetMinutes, o.Rating)

	c := Card{
		OrderID:              o.ID,
		Profile:              p,
		WashStandardMinutes:  wash,
		DryStandardMinutes:   dry,
		InefficiencyDetected: !o.MachineFailed && !o.Status.IsTerminal() && p.EfficiencyRatio > InefficiencyRatio,
		Guarantee:            guarantee.DisplayAdjustment(raw, o.Rating),
		HelperID:             o.HelperID,
		Persona:              PersonaUnassigned,
	}

	switch {
	case asset.IsRescue():
		c.RoutedVia = model.PlanFlash
	case o.HomeModeAtCreation:
		c.RoutedVia = model.PlanEco
	default:
		c.RoutedVia = model.PlanPremium
	}
	c.Tagline = taglines[c.RoutedVia]

	if o.HasHelper() {
		c.Persona = PersonaEfficiencyExpert
		if ledger != nil {
			if rec, ok := ledger.Lookup(o.HelperID); ok && rec.HighValueEligible {
				c.Persona = PersonaQualityCertified
			}
		}
	}

	c.Stage, c.RemainingMinutes = stage(o, asset, p, wash)
	return c
}

func stage(o model.Order, asset model.AssetTransferStatus, p engagement.Profile, wash int) (Stage, *int) {
	remaining := func(until int) *int {
		r := max(0, until-p.EngagedMinutes)
		return &r
	}
	switch {
	case o.Status.IsTerminal():
		return StageCompleted, nil
	case asset.IsRescue():
		return StageRescue, nil
	case p.EngagedMinutes < wash:
		return StageWashing, remaining(wash)
	case p.EngagedMinutes < p.TargetMinutes:
		return StageDrying, remaining(p.TargetMinutes)
	case p.EngagedMinutes < p.TargetMinutes+10:
		return StageFolding, nil
	default:
		return StageDelivering, nil
	}
}
