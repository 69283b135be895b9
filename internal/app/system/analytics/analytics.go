// internal/app/system/analytics/analytics.go
package analytics

import (
	"math"

	"github.com/learnloop/learnloop/internal/domain/models"
)

// MessageStats summarizes how a multiple-choice question was answered.
type MessageStats struct {
	Total          int     `json:"total"`
	Correct        int     `json:"correct"`
	Incorrect      int     `json:"incorrect"`
	AccuracyPct    float64 `json:"accuracy_pct"`
	ResponseByUser int     `json:"respondents"`
}

// StatsForMessage computes answer counts and accuracy over the given
// responses. Accuracy is 0 when nobody has answered.
func StatsForMessage(responses []models.Response) MessageStats {
	stats := MessageStats{}
	for _, r := range responses {
		stats.Total++
		if r.IsCorrect {
			stats.Correct++
		} else {
			stats.Incorrect++
		}
	}
	stats.ResponseByUser = stats.Total
	if stats.Total > 0 {
		stats.AccuracyPct = roundPct(float64(stats.Correct) / float64(stats.Total) * 100)
	}
	return stats
}

// OptionCount is one bar of an answer distribution.
type OptionCount struct {
	Option  string  `json:"option"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
	Correct bool    `json:"correct"`
}

// DistributionForMessage counts how often each option was chosen,
// in the question's option order. Answers that match no option (the
// question was edited, or the payload changed) are ignored.
func DistributionForMessage(payload models.MCQPayload, responses []models.Response) []OptionCount {
	counts := make(map[string]int, len(payload.Options))
	total := 0
	for _, r := range responses {
		counts[r.SelectedAnswer]++
		total++
	}

	out := make([]OptionCount, 0, len(payload.Options))
	for _, opt := range payload.Options {
		oc := OptionCount{
			Option:  opt,
			Count:   counts[opt],
			Correct: opt == payload.CorrectAnswer,
		}
		if total > 0 {
			oc.Percent = roundPct(float64(oc.Count) / float64(total) * 100)
		}
		out = append(out, oc)
	}
	return out
}

// OverallAccuracy is the share of correct answers across every
// response in the slice, as a percentage. Zero when empty.
func OverallAccuracy(responses []models.Response) float64 {
	total := 0
	correct := 0
	for _, r := range responses {
		total++
		if r.IsCorrect {
			correct++
		}
	}
	if total == 0 {
		return 0
	}
	return roundPct(float64(correct) / float64(total) * 100)
}

// roundPct rounds to the nearest whole percent, so 1 of 3 reports 33.
func roundPct(v float64) float64 {
	return math.Round(v)
}
