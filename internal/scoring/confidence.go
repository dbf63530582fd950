package scoring

import "math"

// ConfidenceLevel buckets a confidence value for display.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceVeryLow ConfidenceLevel = "very_low"
)

// ConfidenceAssessment describes how complete the data behind a result was.
// It annotates trust in a result and never alters the result itself.
type ConfidenceAssessment struct {
	Confidence    float64         `json:"confidence"`
	Level         ConfidenceLevel `json:"level"`
	MissingFields []string        `json:"missing_fields,omitempty"`
}

// ComputeConfidence derives a completeness score from the availability map
// over the operation's required fields: confidence = 1 - missing/total,
// rounded to two decimals.
func ComputeConfidence(availability map[string]bool, requiredFields []string, cfg Config) ConfidenceAssessment {
	if len(requiredFields) == 0 {
		return ConfidenceAssessment{Confidence: 1, Level: ConfidenceHigh}
	}

	var missing []string
	for _, f := range requiredFields {
		if !availability[f] {
			missing = append(missing, f)
		}
	}

	missingRate := float64(len(missing)) / float64(len(requiredFields))
	confidence := math.Round((1-missingRate)*100) / 100

	return ConfidenceAssessment{
		Confidence:    confidence,
		Level:         confidenceLevel(confidence, cfg),
		MissingFields: missing,
	}
}

func confidenceLevel(c float64, cfg Config) ConfidenceLevel {
	switch {
	case c >= cfg.ConfidenceHigh:
		return ConfidenceHigh
	case c >= cfg.ConfidenceMedium:
		return ConfidenceMedium
	case c >= cfg.ConfidenceLow:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}
