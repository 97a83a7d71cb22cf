// Package guarantee reconciles the helper pay guarantee against order
// revenue and evaluates wash/dry standards.
package guarantee

import (
	"math"
	"time"

	"github.com/kilianp07/washroute/core/engagement"
)

const (
	MinWagePerHour      = 16.0
	GuaranteeMultiplier = 1.2
	LowRatingThreshold  = 3

	WashStandardMinutes = 30
	DryStandardMinutes  = 35
	washShare           = 0.45
)

func ratingFactor(rating *int) float64 {
	if rating == nil {
		return 1
	}
	r := int(engagement.Clamp(float64(*rating), 1, 5))
	switch {
	case r >= 5:
		return 1.1
	case r >= 4:
		return 1
	case r >= 3:
		return 0.9
	case r >= 2:
		return 0.7
	default:
		return 0.5
	}
}

// Adjustment returns revenue minus guarantee payout for an order, scaled by
// the customer rating and rounded to cents.
func Adjustment(engagedMinutes, targetMinutes int, rating *int) float64 {
	revenue := float64(targetMinutes) / 60 * MinWagePerHour
	payout := float64(engagedMinutes) / 60 * (MinWagePerHour * GuaranteeMultiplier)
	adjusted := (revenue - payout) * ratingFactor(rating)
	return engagement.Round(adjusted*100) / 100
}

// Display is the presentation form of an adjustment.
type Display struct {
	Raw       float64 `json:"raw"`
	Value     float64 `json:"value"`
	LowRating bool    `json:"low_rating"`
}

// DisplayAdjustment forces the shown value negative when the rounded,
// clamped rating is below LowRatingThreshold. Raw keeps the computed sign.
func DisplayAdjustment(raw float64, rating *int) Display {
	d := Display{Raw: raw, Value: raw}
	if rating == nil {
		return d
	}
	r := engagement.Clamp(float64(*rating), 1, 5)
	if r < LowRatingThreshold {
		d.LowRating = true
		d.Value = -math.Abs(raw)
	}
	return d
}

// Prop22Status is the outcome of a wash/dry standards check.
type Prop22Status string

const (
	Prop22Normal           Prop22Status = "Normal"
	Prop22ExceptionPending Prop22Status = "Exception Pending"
)

// Prop22Input describes the engaged window and measured machine times.
type Prop22Input struct {
	OrderID           string
	EngagedStart      time.Time
	EngagedEnd        time.Time
	ActualWashMinutes float64
	ActualDryMinutes  float64
}

// Prop22Evaluation is the result of EvaluateProp22.
type Prop22Evaluation struct {
	OrderID             string       `json:"order_id"`
	EngagedMinutes      float64      `json:"engaged_minutes"`
	WashStandardMinutes int          `json:"wash_standard_minutes"`
	DryStandardMinutes  int          `json:"dry_standard_minutes"`
	Status              Prop22Status `json:"status"`
}

// EvaluateProp22 flags an exception when either machine exceeded its
// standard duration.
func EvaluateProp22(in Prop22Input) Prop22Evaluation {
	engaged := math.Max(0, float64(in.EngagedEnd.Sub(in.EngagedStart).Milliseconds())) / 60000
	status := Prop22Normal
	if in.ActualWashMinutes > WashStandardMinutes || in.ActualDryMinutes > DryStandardMinutes {
		status = Prop22ExceptionPending
	}
	return Prop22Evaluation{
		OrderID:             in.OrderID,
		EngagedMinutes:      engaged,
		WashStandardMinutes: WashStandardMinutes,
		DryStandardMinutes:  DryStandardMinutes,
		Status:              status,
	}
}

// SplitStandard splits a target duration into wash and dry shares.
func SplitStandard(targetMinutes int) (wash, dry int) {
	wash = int(engagement.Round(float64(targetMinutes) * washShare))
	return wash, targetMinutes - wash
}
