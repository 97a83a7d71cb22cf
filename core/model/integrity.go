package model

// HighValueMinScore and HighValueMaxStrikes bound high-value eligibility.
const (
	HighValueMinScore   = 70
	HighValueMaxStrikes = 3
)

// HelperIntegrity is the reputation record of a helper.
type HelperIntegrity struct {
	Score             float64 `json:"score"`
	Strikes           int     `json:"strikes"`
	HighValueEligible bool    `json:"high_value_eligible"`
}

// FreshIntegrity is the record of a helper without any strike.
func FreshIntegrity() HelperIntegrity {
	return HelperIntegrity{Score: 100, Strikes: 0, HighValueEligible: true}
}

// Eligible derives high-value eligibility from score and strikes.
func Eligible(score float64, strikes int) bool {
	return score >= HighValueMinScore && strikes < HighValueMaxStrikes
}
