package glucorisk

import (
	"fmt"
	"glucotrend/glucorisk/defs"
	"glucotrend/glucorisk/pkg/discgo"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const HighRiskLabel = "High Glucose Risk"

// Notifier posts a report for every stored upload and an alert when the
// trend classifies as high.
type Notifier struct {
	Messager discgo.Messager

	Logger   *zap.Logger
	Location *time.Location
}

func (n *Notifier) Notify(u defs.Upload, an defs.Analysis) error {
	if _, err := n.Messager.SendMessage(reportMessage(u, an, n.Location), defs.ReportsChannel); err != nil {
		return fmt.Errorf("unable to send report: %w", err)
	}

	if an.Level != defs.High {
		return nil
	}

	n.Logger.Debug("sending high risk alert",
		zap.String("id", u.ID.String()),
		zap.Int("score", an.Score),
	)
	_, err := n.Messager.SendMessage(defs.MessageData{
		Content:         "@everyone",
		MentionEveryone: true,
		Embeds: []defs.EmbedData{
			{
				Fields: []defs.EmbedField{
					{
						Name:  "⚠️ " + HighRiskLabel,
						Value: fmt.Sprintf("recent mean: %.1f mg/dL, score %d", an.Recent, an.Score),
					},
				},
			},
		},
	}, defs.AlertsChannel)
	if err != nil {
		return fmt.Errorf("unable to send alert: %w", err)
	}
	return nil
}

func reportMessage(u defs.Upload, an defs.Analysis, loc *time.Location) defs.MessageData {
	if loc == nil {
		loc = time.Local
	}

	volatility := "n/a"
	if an.HasVolatility {
		volatility = strconv.FormatFloat(an.Volatility, 'f', 1, 64)
	}

	title := u.ReceivedAt.In(loc).Format(discgo.TimeFormat)
	if len(u.Series) > 0 {
		title = u.Series[len(u.Series)-1].Time.In(loc).Format(discgo.TimeFormat)
	}

	return defs.MessageData{
		Embeds: []defs.EmbedData{
			{
				Title:       title,
				Description: an.Advice,
				Fields: []defs.EmbedField{
					{Name: "Level", Value: an.Level.String(), Inline: true},
					{Name: "Score", Value: strconv.Itoa(an.Score), Inline: true},
					defs.EmptyEmbed(),
					{Name: "Recent", Value: strconv.FormatFloat(an.Recent, 'f', 1, 64), Inline: true},
					{Name: "Prior", Value: strconv.FormatFloat(an.Prior, 'f', 1, 64), Inline: true},
					{Name: "Volatility", Value: volatility, Inline: true},
					{Name: "Readings", Value: strconv.Itoa(u.Kept()), Inline: true},
					{Name: "Dropped", Value: strconv.Itoa(u.Dropped), Inline: true},
					{Name: "Source", Value: u.Source, Inline: true},
				},
			},
		},
	}
}
