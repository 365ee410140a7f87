package http

import (
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/risk"
	"glucotrend/glucorisk/pkg/stats"
	"html/template"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type uploadSummary struct {
	ID      uuid.UUID `json:"id"`
	Source  string    `json:"source"`
	Total   int       `json:"total"`
	Kept    int       `json:"kept"`
	Dropped int       `json:"dropped"`
}

func newUploadSummary(u defs.Upload) uploadSummary {
	return uploadSummary{
		ID:      u.ID,
		Source:  u.Source,
		Total:   u.Total,
		Kept:    u.Kept(),
		Dropped: u.Dropped,
	}
}

// point is one row of the chart series, keyed by timestamp. RollingMean is
// nil when the overlay was not computed.
type point struct {
	Time        time.Time `json:"time"`
	Value       float64   `json:"value"`
	RollingMean *float64  `json:"rollingMean,omitempty"`
}

type view struct {
	Error    string
	CanSync  bool
	Upload   *defs.Upload
	Analysis defs.Analysis
	Summary  stats.SummaryStatistics
	Range    stats.RangeAnalysis
	Glucose  defs.GlucoseConfig
	Points   []point
}

func (s *HttpServer) newView(errMsg string) view {
	v := view{Error: errMsg, CanSync: s.Syncer != nil, Glucose: s.GlucoseConfig}

	var series defs.Series
	if s.Store != nil {
		if u, ok := s.Store.Get(); ok {
			v.Upload = &u
			series = u.Series
		}
	}

	v.Analysis = risk.Analyze(series)
	v.Summary = stats.GlucoseSummary(series)
	v.Range = stats.TimeSpentInRange(series, s.GlucoseConfig.Low, s.GlucoseConfig.High)
	v.Points = chartPoints(v.Analysis.Chart)
	return v
}

func chartPoints(c defs.Chart) []point {
	pts := make([]point, len(c.Readings))
	for i, r := range c.Readings {
		pts[i] = point{Time: r.Time, Value: r.Value}
		if i < len(c.RollingMean) {
			m := c.RollingMean[i]
			pts[i].RollingMean = &m
		}
	}
	return pts
}

func templateFuncs(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		"localTime": func(t time.Time) string {
			return t.In(loc).Format("2006-01-02 15:04")
		},
		"mgdl": func(v float64) string {
			return strconv.FormatFloat(v, 'f', 1, 64)
		},
		"percent": func(v float64) string {
			return strconv.FormatFloat(v*100, 'f', 1, 64) + "%"
		},
	}
}
