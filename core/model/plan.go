package model

import (
	"fmt"
	"time"
)

// PlanID identifies one of the three dispatch strategies.
type PlanID string

const (
	PlanFlash   PlanID = "Flash"
	PlanEco     PlanID = "Eco"
	PlanPremium PlanID = "Premium"
)

// AllPlans lists the strategies in scoring order.
var AllPlans = []PlanID{PlanFlash, PlanEco, PlanPremium}

// ParsePlanID validates a plan name.
func ParsePlanID(s string) (PlanID, error) {
	for _, p := range AllPlans {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown plan %q", s)
}

// PlanMetrics is the outcome of one scoring pass for one strategy.
type PlanMetrics struct {
	ID                  PlanID  `json:"id"`
	Label               string  `json:"label"`
	TotalDistanceKm     float64 `json:"total_distance_km"`
	EstimatedMinutes    float64 `json:"estimated_minutes"`
	LaundryLoad         float64 `json:"laundry_load"`
	HelperLoad          float64 `json:"helper_load"`
	Efficiency          float64 `json:"efficiency"`
	ChainOfCustodyScore float64 `json:"chain_of_custody_score"`
	FaultRecoveryScore  float64 `json:"fault_recovery_score"`
	CompositeScore      float64 `json:"composite_score"`
	GuaranteeAdjustment float64 `json:"guarantee_adjustment"`
}

// PlanHistoryEntry records a past plan selection.
type PlanHistoryEntry struct {
	ID               string    `json:"id"`
	Plan             PlanID    `json:"plan"`
	Timestamp        time.Time `json:"timestamp"`
	CompositeScore   float64   `json:"composite_score"`
	TotalDistanceKm  float64   `json:"total_distance_km"`
	EstimatedMinutes float64   `json:"estimated_minutes"`
}

// PlanHistoryCap bounds the plan history, newest first.
const PlanHistoryCap = 12

// Weights are the user-configurable scoring weights (0-100). Load is kept
// for configuration compatibility but does not take part in scoring.
type Weights struct {
	Distance   int `json:"distance" yaml:"distance"`
	Load       int `json:"load" yaml:"load"`
	Efficiency int `json:"efficiency" yaml:"efficiency"`
}

// DefaultWeights returns the stock weight configuration.
func DefaultWeights() Weights {
	return Weights{Distance: 50, Load: 0, Efficiency: 20}
}

// Normalized returns the distance and efficiency weights renormalised to
// sum to 1. A zero total falls back to a divisor of 1.
func (w Weights) Normalized() (distance, efficiency float64) {
	total := float64(w.Distance + w.Efficiency)
	if total == 0 {
		total = 1
	}
	return float64(w.Distance) / total, float64(w.Efficiency) / total
}
