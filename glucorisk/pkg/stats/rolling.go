package stats

import (
	"github.com/montanaflynn/stats"
)

// Window is one position of a full-window rolling statistic. Valid is false
// until the window has filled.
type Window struct {
	Value float64
	Valid bool
}

// TrailingMean averages the last window values ending at each index, using
// however many are available (minimum one). Every index gets a value.
func TrailingMean(values []float64, window int) []float64 {
	if window < 1 {
		window = 1
	}
	out := make([]float64, len(values))
	for i := range values {
		start := i - window + 1
		if start < 0 {
			start = 0
		}
		out[i], _ = stats.Mean(values[start : i+1])
	}
	return out
}

// FullWindowMean is the rolling mean that is only defined once window values
// are available.
func FullWindowMean(values []float64, window int) []Window {
	return fullWindow(values, window, stats.Mean)
}

// FullWindowStdDev is the rolling sample standard deviation (divisor
// window-1), only defined once window values are available.
func FullWindowStdDev(values []float64, window int) []Window {
	return fullWindow(values, window, stats.StandardDeviationSample)
}

func fullWindow(values []float64, window int, fn func(stats.Float64Data) (float64, error)) []Window {
	out := make([]Window, len(values))
	if window < 1 {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		v, err := fn(values[i-window+1 : i+1])
		if err != nil {
			continue
		}
		out[i] = Window{Value: v, Valid: true}
	}
	return out
}

// LastValid returns the most recent defined value.
func LastValid(ws []Window) (float64, bool) {
	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i].Valid {
			return ws[i].Value, true
		}
	}
	return 0, false
}
