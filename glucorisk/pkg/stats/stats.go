package stats

import (
	"glucotrend/glucorisk/defs"

	"github.com/montanaflynn/stats"
)

type RangeAnalysis struct {
	BelowRange float64 `json:"belowRange"`
	InRange    float64 `json:"inRange"`
	AboveRange float64 `json:"aboveRange"`
}

func TimeSpentInRange(s defs.Series, lower, upper float64) RangeAnalysis {
	if len(s) == 0 {
		return RangeAnalysis{}
	}

	below, above := 0.0, 0.0
	for _, r := range s {
		switch {
		case r.Value <= lower:
			below++
		case r.Value >= upper:
			above++
		}
	}
	in := float64(len(s)) - below - above

	total := float64(len(s))
	return RangeAnalysis{
		BelowRange: below / total,
		InRange:    in / total,
		AboveRange: above / total,
	}
}

type SummaryStatistics struct {
	Count     int     `json:"count"`
	Average   float64 `json:"average"`
	Deviation float64 `json:"deviation"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
}

// GlucoseSummary returns zero values for an empty series. Deviation needs at
// least two readings.
func GlucoseSummary(s defs.Series) SummaryStatistics {
	vals := s.Values()
	if len(vals) == 0 {
		return SummaryStatistics{}
	}

	avg, _ := stats.Mean(vals)
	lo, _ := stats.Min(vals)
	hi, _ := stats.Max(vals)
	ss := SummaryStatistics{
		Count:   len(vals),
		Average: avg,
		Min:     lo,
		Max:     hi,
	}
	if len(vals) > 1 {
		ss.Deviation, _ = stats.StandardDeviationSample(vals)
	}
	return ss
}
