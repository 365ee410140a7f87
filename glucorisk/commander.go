package glucorisk

import (
	"context"
	"fmt"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/discgo"
	"glucotrend/glucorisk/pkg/metrics"
	"glucotrend/glucorisk/pkg/risk"
	"glucotrend/glucorisk/pkg/store"
	"time"

	"go.uber.org/zap"
)

const noSeriesReply = "no series loaded, upload a csv or run /sync"

type CommandHandler struct {
	Display discgo.Display
	Store   store.SeriesStore
	Fetcher *Fetcher
	Metrics *metrics.Metrics

	Logger   *zap.Logger
	Location *time.Location
}

func (ch *CommandHandler) CreateHandler() func(defs.EventInfo, defs.CommandInteraction) {
	return func(e defs.EventInfo, data defs.CommandInteraction) {
		reply, err := ch.handleCommand(data)
		if err != nil {
			ch.Logger.Debug("unable to handle command",
				zap.String("command", data.Name),
				zap.Error(err),
			)
			reply = err.Error()
		}

		resp := defs.InteractionResponse{Content: reply}
		if err := ch.Display.RespondInteraction(e, resp); err != nil {
			ch.Logger.Debug("unable to send interaction callback", zap.Error(err))
		}
	}
}

func (ch *CommandHandler) handleCommand(data defs.CommandInteraction) (string, error) {
	ch.Logger.Debug("received command", zap.String("cmd", data.Name))

	switch data.Name {
	case defs.RiskCmd:
		return ch.handleRisk()
	case defs.SyncCmd:
		return ch.handleSync()
	case defs.ClearCmd:
		ch.Store.Clear()
		if ch.Metrics != nil {
			ch.Metrics.CurrentReadings.Set(0)
		}
		return "cleared current series", nil
	default:
		return "", fmt.Errorf("unknown command: %s", data.Name)
	}
}

func (ch *CommandHandler) handleRisk() (string, error) {
	u, ok := ch.Store.Get()
	if !ok {
		return noSeriesReply, nil
	}

	an := risk.Analyze(u.Series)
	if _, err := ch.Display.SendMessage(reportMessage(u, an, ch.Location), defs.ReportsChannel); err != nil {
		return "", fmt.Errorf("unable to send report: %w", err)
	}
	return fmt.Sprintf("risk is %s, report posted to #%s", an.Level, defs.ReportsChannel), nil
}

func (ch *CommandHandler) handleSync() (string, error) {
	if ch.Fetcher == nil {
		return "", defs.ErrNoDexcom
	}

	u, err := ch.Fetcher.FetchAndLoad(context.Background())
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("loaded %d readings from dexcom", u.Kept()), nil
}
