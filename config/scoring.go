package config

import (
	"errors"
	"fmt"

	"github.com/kilianp07/washroute/core/model"
	"github.com/kilianp07/washroute/core/planner"
)

// ErrInvalidWeights reports a weight outside [0, 100].
var ErrInvalidWeights = errors.New("weights must be within [0, 100]")

// ScoringConfig holds the operator weights and planner tuning.
// A nil Weights selects model.DefaultWeights.
type ScoringConfig struct {
	Weights             *model.Weights `json:"weights"`
	NudgeThreshold      *float64       `json:"nudge_threshold"`
	NudgeBonus          *float64       `json:"nudge_bonus"`
	RaisePremiumCustody *bool          `json:"raise_premium_custody"`
}

func (c *ScoringConfig) SetDefaults() {
	if c.Weights == nil {
		w := model.DefaultWeights()
		c.Weights = &w
	}
}

func (c ScoringConfig) Validate() error {
	if c.Weights == nil {
		return nil
	}
	for name, v := range map[string]int{
		"distance":   c.Weights.Distance,
		"load":       c.Weights.Load,
		"efficiency": c.Weights.Efficiency,
	} {
		if v < 0 || v > 100 {
			return fmt.Errorf("%s weight %d: %w", name, v, ErrInvalidWeights)
		}
	}
	if c.NudgeBonus != nil && (*c.NudgeBonus < 0 || *c.NudgeBonus > 1) {
		return fmt.Errorf("nudge_bonus %v must be within [0, 1]", *c.NudgeBonus)
	}
	if c.NudgeThreshold != nil && *c.NudgeThreshold < 0 {
		return fmt.Errorf("nudge_threshold %v must not be negative", *c.NudgeThreshold)
	}
	return nil
}

// EffectiveWeights returns the configured weights or the defaults.
func (c ScoringConfig) EffectiveWeights() model.Weights {
	if c.Weights == nil {
		return model.DefaultWeights()
	}
	return *c.Weights
}

// Tuning overlays the configured values on planner.DefaultTuning.
func (c ScoringConfig) Tuning() planner.Tuning {
	t := planner.DefaultTuning()
	if c.NudgeThreshold != nil {
		t.NudgeThreshold = *c.NudgeThreshold
	}
	if c.NudgeBonus != nil {
		t.NudgeBonus = *c.NudgeBonus
	}
	if c.RaisePremiumCustody != nil {
		t.RaisePremiumCustody = *c.RaisePremiumCustody
	}
	return t
}
