package models

// Classification is the coarse complexity bucket
type Classification int

const (
	ClassLow Classification = iota
	ClassMedium
	ClassHigh
)

// String returns the string representation of Classification
func (c Classification) String() string {
	switch c {
	case ClassLow:
		return "low"
	case ClassMedium:
		return "medium"
	case ClassHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Strategy is the recommended way to obtain the package
type Strategy int

const (
	StrategyUseExisting Strategy = iota
	StrategyBuildFromSource
	StrategyNeedsInvestigation
)

// String returns the string representation of Strategy
func (s Strategy) String() string {
	switch s {
	case StrategyUseExisting:
		return "use-existing-artifact"
	case StrategyBuildFromSource:
		return "build-from-source"
	case StrategyNeedsInvestigation:
		return "needs-investigation"
	default:
		return "unknown"
	}
}

// ComplexityAssessment is the derived result of classifying one snapshot.
// Created fresh per invocation, never mutated, not persisted.
type ComplexityAssessment struct {
	Package        string         `json:"package"`
	Version        string         `json:"version,omitempty"`
	Score          int            `json:"score"`
	Indicators     []string       `json:"indicators"`
	Classification Classification `json:"classification"`
	Strategy       Strategy       `json:"strategy"`
}

// MarshalText renders Classification as its string form in JSON
func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// MarshalText renders Strategy as its string form in JSON
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
