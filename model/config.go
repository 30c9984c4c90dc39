package model

// MatchConfig holds the tunable heuristics of the matching engine.
// The defaults reproduce the behavior the review wizard was built around;
// the thresholds materially change matching outcomes, so callers that tune
// them should re-run analysis rather than reuse saved snapshots.
type MatchConfig struct {
	// FuzzyAcceptThreshold is the minimum normalized token-overlap score a
	// property candidate needs to be accepted when no exact or
	// suffix-stripped match exists
	FuzzyAcceptThreshold float64 `json:"fuzzy_accept_threshold"`

	// HeaderOverlapThreshold is the minimum header overlap ratio below which
	// a persisted snapshot is considered unrelated to the current document
	// and discarded
	HeaderOverlapThreshold float64 `json:"header_overlap_threshold"`

	// DefaultPrimaryClass is the workbook-wide fallback class IRI for sheets
	// whose name matches no ontology class. Empty leaves such sheets
	// unmapped.
	DefaultPrimaryClass string `json:"default_primary_class,omitempty"`
}

// DefaultMatchConfig returns the default matching configuration
func DefaultMatchConfig() MatchConfig {
	return MatchConfig{
		FuzzyAcceptThreshold:   0.5,
		HeaderOverlapThreshold: 0.3,
	}
}
