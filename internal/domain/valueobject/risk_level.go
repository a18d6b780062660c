package valueobject

import "fmt"

// RiskLevel is an immutable value object representing the churn risk band.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow    = RiskLevel{value: "Low"}
	RiskLevelMedium = RiskLevel{value: "Medium"}
	RiskLevelHigh   = RiskLevel{value: "High"}
)

// RiskLevelFromString reconstructs a RiskLevel from its string representation.
func RiskLevelFromString(s string) (RiskLevel, error) {
	switch s {
	case "Low":
		return RiskLevelLow, nil
	case "Medium":
		return RiskLevelMedium, nil
	case "High":
		return RiskLevelHigh, nil
	default:
		return RiskLevel{}, fmt.Errorf("invalid risk level: %s", s)
	}
}

// RiskLevelFromProbability derives the risk band from a churn probability.
// Bands: p < 0.3 Low, 0.3 <= p < 0.7 Medium, p >= 0.7 High. The Medium upper
// bound is exclusive so that exactly 0.7 classifies as High.
func RiskLevelFromProbability(p float64) RiskLevel {
	switch {
	case p >= 0.7:
		return RiskLevelHigh
	case p >= 0.3:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// String returns the string representation.
func (r RiskLevel) String() string {
	return r.value
}

// Color returns the dashboard display color for this risk band.
func (r RiskLevel) Color() string {
	switch r.value {
	case "High":
		return "red"
	case "Medium":
		return "orange"
	case "Low":
		return "green"
	default:
		return ""
	}
}

// IsZero returns true if the RiskLevel has not been set.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskLevel.
func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
