package glucorisk

import (
	"context"
	"fmt"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/dexcom"
	"glucotrend/glucorisk/pkg/normalize"
	"strconv"
	"time"

	"go.uber.org/zap"
)

type Fetcher struct {
	Source   dexcom.Source
	Uploader *Uploader

	Logger *zap.Logger
}

// FetchAndLoad replaces the current series with the last day of Dexcom
// readings.
func (f *Fetcher) FetchAndLoad(ctx context.Context) (defs.Upload, error) {
	if f.Source == nil {
		return defs.Upload{}, defs.ErrNoDexcom
	}

	ctx, cancel := context.WithTimeout(ctx, defs.FetchTimeout)
	defer cancel()

	rs, err := f.Source.Readings(ctx, dexcom.MinuteLimit, dexcom.CountLimit)
	if err != nil {
		return defs.Upload{}, fmt.Errorf("unable to fetch dexcom readings: %w", err)
	}
	f.Logger.Debug("fetched dexcom readings", zap.Int("count", len(rs)))

	return f.Uploader.Ingest(defs.SourceDexcom, readingsTable(rs))
}

func readingsTable(rs []*dexcom.Reading) normalize.RawTable {
	t := normalize.RawTable{
		Header: []string{normalize.TimeColumn, normalize.ValueColumn, "trend"},
		Rows:   make([]map[string]string, 0, len(rs)),
	}
	for _, r := range rs {
		t.Rows = append(t.Rows, map[string]string{
			normalize.TimeColumn:  r.Time.UTC().Format(time.RFC3339Nano),
			normalize.ValueColumn: strconv.FormatFloat(r.Value, 'f', -1, 64),
			"trend":               r.Trend,
		})
	}
	return t
}
