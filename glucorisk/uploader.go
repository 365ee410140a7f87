package glucorisk

import (
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/metrics"
	"glucotrend/glucorisk/pkg/normalize"
	"glucotrend/glucorisk/pkg/risk"
	"glucotrend/glucorisk/pkg/store"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Uploader is the single way a series reaches the store: every source goes
// through normalize.Normalize and replaces the current upload.
type Uploader struct {
	Store    store.SeriesWriter
	Notifier *Notifier
	Metrics  *metrics.Metrics

	Logger *zap.Logger
	Now    func() time.Time
}

func (up *Uploader) UploadCSV(r io.Reader) (defs.Upload, error) {
	t, err := normalize.ReadCSV(r)
	if err != nil {
		up.observeFailure(defs.SourceCSV, err)
		return defs.Upload{}, err
	}
	return up.Ingest(defs.SourceCSV, t)
}

func (up *Uploader) Ingest(source string, t normalize.RawTable) (defs.Upload, error) {
	s, rep, err := normalize.Normalize(t)
	if err != nil {
		up.observeFailure(source, err)
		return defs.Upload{}, err
	}

	u := defs.Upload{
		ID:         uuid.New(),
		Source:     source,
		ReceivedAt: up.now(),
		Series:     s,
		Total:      rep.Total,
		Dropped:    rep.Dropped,
	}
	up.Store.Put(u)

	up.Logger.Info("stored upload",
		zap.String("id", u.ID.String()),
		zap.String("source", source),
		zap.Int("total", rep.Total),
		zap.Int("kept", rep.Kept),
		zap.Int("dropped", rep.Dropped),
	)

	an := risk.Analyze(s)
	if up.Metrics != nil {
		up.Metrics.ObserveUpload(u)
		up.Metrics.ObserveAnalysis(an)
	}

	if up.Notifier != nil {
		if err := up.Notifier.Notify(u, an); err != nil {
			up.Logger.Debug("unable to send notification", zap.String("id", u.ID.String()), zap.Error(err))
			if up.Metrics != nil {
				up.Metrics.NotificationsErr.Inc()
			}
		}
	}

	return u, nil
}

func (up *Uploader) observeFailure(source string, err error) {
	outcome := metrics.OutcomeFailed
	if normalize.IsRejected(err) {
		outcome = metrics.OutcomeRejected
	}

	up.Logger.Debug("upload not stored",
		zap.String("source", source),
		zap.String("outcome", outcome),
		zap.Error(err),
	)
	if up.Metrics != nil {
		up.Metrics.ObserveUploadFailure(source, outcome)
	}
}

func (up *Uploader) now() time.Time {
	if up.Now != nil {
		return up.Now()
	}
	return time.Now()
}
