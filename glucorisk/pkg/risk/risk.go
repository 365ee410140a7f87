// Package risk classifies the short-term glucose trend of a series.
//
// The rule is a fixed heuristic, not a clinical algorithm: the recent mean is
// the last 5 readings, the prior mean is the 10 readings before those (or
// everything before them on shorter series), and volatility is the sample
// standard deviation of the last 10 readings.
package risk

import (
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/stats"

	mstats "github.com/montanaflynn/stats"
)

const (
	MinReadings = 5

	overlayWindow    = 5
	recentWindow     = 5
	volatilityWindow = 10
	priorWindow      = 10

	elevatedThreshold   = 140
	highThreshold       = 180
	volatilityThreshold = 25
	shiftThreshold      = 20

	highScore   = 4
	mediumScore = 2
)

const (
	InsufficientAdvice = "insufficient data, need at least 5 readings"
	HighAdvice         = "Trend is elevated and volatile. Review diet and daily routine, and consider a clinical consultation."
	MediumAdvice       = "Keep an eye on post-meal levels, activity, and sleep."
	LowAdvice          = "Trend is stable. Maintain your current routine."
)

// Analyze scores the series and returns its risk level with the chart overlay.
// It never fails: short series come back as Unknown.
func Analyze(s defs.Series) defs.Analysis {
	if len(s) < MinReadings {
		return defs.Analysis{
			Level:  defs.Unknown,
			Advice: InsufficientAdvice,
			Chart:  defs.Chart{Readings: s.Clone()},
		}
	}

	vals := s.Values()
	an := defs.Analysis{
		Chart: defs.Chart{
			Readings:    s.Clone(),
			RollingMean: stats.TrailingMean(vals, overlayWindow),
		},
	}

	recentMeans := stats.FullWindowMean(vals, recentWindow)
	an.Recent = recentMeans[len(recentMeans)-1].Value
	an.Prior = priorMean(vals)
	an.Volatility, an.HasVolatility = stats.LastValid(stats.FullWindowStdDev(vals, volatilityWindow))

	an.Score = Score(an.Recent, an.Prior, an.Volatility, an.HasVolatility)
	an.Level, an.Advice = Classify(an.Score)
	return an
}

// priorMean averages the 10 readings preceding the last 5. Series shorter
// than 15 fall back to every reading before the last 5, keeping at least one.
func priorMean(vals []float64) float64 {
	n := len(vals)
	end := n - recentWindow
	start := end - priorWindow
	if start < 0 {
		start = 0
	}
	if end < 1 {
		end = 1
	}
	m, _ := mstats.Mean(vals[start:end])
	return m
}

// Score adds 2 when the recent mean reaches 140 and another 2 when it reaches
// 180. Volatility of at least 25 and a rise of at least 20 over the prior mean
// add 1 each.
func Score(recent, prior, volatility float64, hasVolatility bool) int {
	score := 0
	if recent >= elevatedThreshold {
		score += 2
	}
	if recent >= highThreshold {
		score += 2
	}
	if hasVolatility && volatility >= volatilityThreshold {
		score++
	}
	if recent-prior >= shiftThreshold {
		score++
	}
	return score
}

// Classify maps a score to a level and its advice: 4 and up is high, 2 and 3
// are medium.
func Classify(score int) (defs.RiskLevel, string) {
	switch {
	case score >= highScore:
		return defs.High, HighAdvice
	case score >= mediumScore:
		return defs.Medium, MediumAdvice
	default:
		return defs.Low, LowAdvice
	}
}
