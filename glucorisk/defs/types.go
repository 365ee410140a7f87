package defs

import (
	"time"

	"github.com/google/uuid"
)

// Reading is a single glucose value in mg/dL.
type Reading struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// Series is ordered non-decreasing by time. Readings sharing a timestamp keep
// their arrival order.
type Series []Reading

func (s Series) Values() []float64 {
	vals := make([]float64, len(s))
	for i, r := range s {
		vals[i] = r.Value
	}
	return vals
}

func (s Series) Clone() Series {
	if s == nil {
		return nil
	}
	return append(Series(nil), s...)
}

const (
	SourceCSV    = "csv"
	SourceDexcom = "dexcom"
)

// Upload is the unit held by the series store: one normalized series and
// where it came from.
type Upload struct {
	ID         uuid.UUID `json:"id"`
	Source     string    `json:"source"`
	ReceivedAt time.Time `json:"receivedAt"`
	Series     Series    `json:"series"`
	Total      int       `json:"total"`
	Dropped    int       `json:"dropped"`
}

func (u Upload) Kept() int {
	return len(u.Series)
}

type RiskLevel int

const (
	Unknown RiskLevel = iota
	Low
	Medium
	High
)

func (l RiskLevel) String() string {
	return [...]string{"unknown", "low", "medium", "high"}[l]
}

func (l RiskLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Chart is what a renderer needs: the raw readings and, when computed, a
// rolling mean aligned index for index with them.
type Chart struct {
	Readings    Series    `json:"readings"`
	RollingMean []float64 `json:"rollingMean,omitempty"`
}

type Analysis struct {
	Level  RiskLevel `json:"level"`
	Advice string    `json:"advice"`

	Score         int     `json:"score"`
	Recent        float64 `json:"recent"`
	Prior         float64 `json:"prior"`
	Volatility    float64 `json:"volatility"`
	HasVolatility bool    `json:"hasVolatility"`

	Chart Chart `json:"chart"`
}
