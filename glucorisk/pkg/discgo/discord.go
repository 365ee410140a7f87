package discgo

import (
	"context"
	"fmt"
	"glucotrend/glucorisk/defs"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/diamondburned/arikawa/v3/session"
	"github.com/diamondburned/arikawa/v3/utils/json/option"
	"go.uber.org/zap"
)

const TimeFormat = "2006-01-02 03:04 PM"

type Messager interface {
	SendMessage(data defs.MessageData, chName string) (uint64, error)
}

type Interactioner interface {
	RespondInteraction(e defs.EventInfo, resp defs.InteractionResponse) error
}

type Display interface {
	Messager
	Interactioner
}

type Discord struct {
	Session *session.Session
	Logger  *zap.Logger

	gid      discord.GuildID
	channels map[string]discord.ChannelID
}

func New(ctx context.Context, token, guildID string, logger *zap.Logger) (*Discord, error) {
	sf, err := discord.ParseSnowflake(guildID)
	if err != nil {
		return nil, fmt.Errorf("unable to parse guild id: %w", err)
	}

	ses := session.NewWithIntents("Bot "+token, gateway.IntentGuilds, gateway.IntentGuildMessages)
	if err := ses.Open(ctx); err != nil {
		return nil, fmt.Errorf("unable to open session: %w", err)
	}

	return &Discord{
		Session:  ses,
		Logger:   logger,
		gid:      discord.GuildID(sf),
		channels: make(map[string]discord.ChannelID),
	}, nil
}

// Setup makes sure every named text channel exists in the guild.
func (d *Discord) Setup(channels ...string) error {
	existChannels, err := d.Session.Channels(d.gid)
	if err != nil {
		return fmt.Errorf("unable to get channels: %w", err)
	}
	for _, ch := range existChannels {
		d.channels[ch.Name] = ch.ID
	}

	for _, chName := range channels {
		if _, ok := d.channels[chName]; ok {
			continue
		}
		d.Logger.Debug("creating channel", zap.String("channel name", chName))
		ch, err := d.Session.CreateChannel(d.gid, api.CreateChannelData{
			Name: chName,
			Type: discord.GuildText,
		})
		if err != nil {
			return fmt.Errorf("unable to create channel %s: %w", chName, err)
		}
		d.channels[chName] = ch.ID
	}

	d.Logger.Debug("discord setup complete")
	return nil
}

func (d *Discord) SendMessage(data defs.MessageData, chName string) (uint64, error) {
	chID, ok := d.channels[chName]
	if !ok {
		return 0, fmt.Errorf("unknown channel: %s", chName)
	}
	msg, err := d.Session.SendMessageComplex(chID, marshalSendData(data))
	if err != nil {
		return 0, fmt.Errorf("unable to send message: %w", err)
	}
	d.Logger.Debug("sent message", zap.String("channel name", chName))
	return uint64(msg.ID), nil
}

// RegisterCommands replaces the application's guild commands with cmds and
// routes command interactions to handler.
func (d *Discord) RegisterCommands(cmds []defs.CommandData, handler func(defs.EventInfo, defs.CommandInteraction)) error {
	app, err := d.Session.CurrentApplication()
	if err != nil {
		return fmt.Errorf("unable to get current application: %w", err)
	}

	existing, err := d.Session.GuildCommands(app.ID, d.gid)
	if err != nil {
		return fmt.Errorf("unable to fetch commands: %w", err)
	}
	for _, cmd := range existing {
		if err := d.Session.DeleteGuildCommand(app.ID, d.gid, cmd.ID); err != nil {
			return fmt.Errorf("unable to delete command %s: %w", cmd.Name, err)
		}
		d.Logger.Debug("deleted command", zap.String("command name", cmd.Name))
	}

	for _, cmd := range cmds {
		_, err := d.Session.CreateGuildCommand(app.ID, d.gid, api.CreateCommandData{
			Name:        cmd.Name,
			Description: cmd.Description,
		})
		if err != nil {
			return fmt.Errorf("unable to create command %s: %w", cmd.Name, err)
		}
	}

	d.Session.AddHandler(func(e *gateway.InteractionCreateEvent) {
		info, data, ok := commandEvent(e)
		if !ok {
			return
		}
		handler(info, data)
	})
	return nil
}

func (d *Discord) RespondInteraction(e defs.EventInfo, resp defs.InteractionResponse) error {
	return d.Session.RespondInteraction(discord.InteractionID(e.ID), e.Token, api.InteractionResponse{
		Type: api.MessageInteractionWithSource,
		Data: &api.InteractionResponseData{Content: option.NewNullableString(resp.Content)},
	})
}

func commandEvent(e *gateway.InteractionCreateEvent) (defs.EventInfo, defs.CommandInteraction, bool) {
	data, ok := e.Data.(*discord.CommandInteraction)
	if !ok {
		return defs.EventInfo{}, defs.CommandInteraction{}, false
	}
	info := defs.EventInfo{
		ID:    uint64(e.ID),
		AppID: uint64(e.AppID),
		Token: e.Token,
	}
	return info, defs.CommandInteraction{Name: data.Name}, true
}

func (d *Discord) Close() error {
	return d.Session.Close()
}
