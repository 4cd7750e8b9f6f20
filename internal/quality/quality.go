// Package quality maps latency samples to discrete quality tiers.
package quality

import "tsdash/internal/model"

// Thresholds in milliseconds, inclusive-low.
const (
	ExcellentBelowMs = 20
	GoodBelowMs      = 50
	FairBelowMs      = 100
)

// Classify maps a latency in milliseconds to a quality tier. A nil latency
// means no successful probe and classifies as unknown.
func Classify(latencyMs *float64) model.Quality {
	if latencyMs == nil {
		return model.QualityUnknown
	}
	switch {
	case *latencyMs < ExcellentBelowMs:
		return model.QualityExcellent
	case *latencyMs < GoodBelowMs:
		return model.QualityGood
	case *latencyMs < FairBelowMs:
		return model.QualityFair
	default:
		return model.QualityPoor
	}
}
