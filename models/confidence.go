package models

// Confidence tags how an estimate was produced so callers can branch on it
// instead of parsing note strings.
//
//	high:      known reference profile, single mask class id
//	estimated: known reference profile, but the area was merged from
//	           multiple mask ids that resolved to the same label
//	low:       no reference profile; the default fallback profile was used
type Confidence string

const (
	ConfidenceHigh      Confidence = "high"
	ConfidenceEstimated Confidence = "estimated"
	ConfidenceLow       Confidence = "low"
)
