// Package normalize turns uploaded tables into canonical glucose series.
package normalize

import (
	"errors"
	"fmt"
	"glucotrend/glucorisk/defs"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Logical column names, matched case-insensitively after trimming.
const (
	TimeColumn  = "time"
	ValueColumn = "value"
)

var timeLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
}

// RawTable is an uploaded table as given: headers untouched and every cell
// still text.
type RawTable struct {
	Header []string
	Rows   []map[string]string
}

// Report counts the rows seen, kept and dropped by Normalize.
type Report struct {
	Total   int
	Kept    int
	Dropped int
}

// MissingColumnError names the logical columns no header resolved to.
type MissingColumnError struct {
	Columns []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column(s): %s", strings.Join(e.Columns, ", "))
}

// IsRejected reports whether err means the upload itself was unusable, as
// opposed to a server-side failure.
func IsRejected(err error) bool {
	var mce *MissingColumnError
	var rde *ReadError
	return errors.As(err, &mce) || errors.As(err, &rde)
}

// Normalize resolves the time and value columns, drops rows that fail to
// parse and returns the survivors sorted by time. Only unresolvable columns
// are an error; an empty result is not.
func Normalize(t RawTable) (defs.Series, Report, error) {
	timeKey, valueKey, err := resolveColumns(t)
	if err != nil {
		return nil, Report{Total: len(t.Rows), Dropped: len(t.Rows)}, err
	}

	s := make(defs.Series, 0, len(t.Rows))
	for _, row := range t.Rows {
		ts, ok := parseTime(row[timeKey])
		if !ok {
			continue
		}
		v, ok := parseValue(row[valueKey])
		if !ok {
			continue
		}
		s = append(s, defs.Reading{Time: ts, Value: v})
	}

	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Time.Before(s[j].Time)
	})

	return s, Report{
		Total:   len(t.Rows),
		Kept:    len(s),
		Dropped: len(t.Rows) - len(s),
	}, nil
}

func canonical(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func resolveColumns(t RawTable) (string, string, error) {
	header := t.Header
	if len(header) == 0 {
		header = unionKeys(t.Rows)
	}

	var timeKey, valueKey string
	var foundTime, foundValue bool
	for _, h := range header {
		switch canonical(h) {
		case TimeColumn:
			if !foundTime {
				timeKey, foundTime = h, true
			}
		case ValueColumn:
			if !foundValue {
				valueKey, foundValue = h, true
			}
		}
	}

	var missing []string
	if !foundTime {
		missing = append(missing, TimeColumn)
	}
	if !foundValue {
		missing = append(missing, ValueColumn)
	}
	if len(missing) > 0 {
		return "", "", &MissingColumnError{Columns: missing}
	}
	return timeKey, valueKey, nil
}

func unionKeys(rows []map[string]string) []string {
	seen := make(map[string]struct{})
	keys := make([]string, 0)
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

func parseTime(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), true
	}
	return time.Time{}, false
}

func parseValue(raw string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
