package discgo

import (
	"glucotrend/glucorisk/defs"
	"testing"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/diamondburned/arikawa/v3/gateway"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type DiscordTypeTestSuite struct {
	suite.Suite
}

func TestDiscordTypeSuite(t *testing.T) {
	suite.Run(t, new(DiscordTypeTestSuite))
}

func newMessageData() defs.MessageData {
	return defs.MessageData{
		Content: "test content",
		Embeds: []defs.EmbedData{
			{
				Title:       "title1",
				Description: "description1",
				Fields: []defs.EmbedField{
					{
						Name:   "field1",
						Value:  "value1",
						Inline: false,
					},
					defs.EmptyEmbed(),
				},
			},
		},
		MentionEveryone: true,
	}
}

func (suite *DiscordTypeTestSuite) TestMarshalData() {
	input := newMessageData()
	output := marshalSendData(input)

	assert.Equal(suite.T(), input.Content, output.Content)
	assert.Equal(suite.T(), len(input.Embeds), len(output.Embeds))
	assert.Empty(suite.T(), output.Files)

	assert.Equal(suite.T(), input.Embeds[0].Title, output.Embeds[0].Title)
	assert.Equal(suite.T(), input.Embeds[0].Description, output.Embeds[0].Description)
	assert.EqualValues(suite.T(), discord.EmbedField{
		Name:   "field1",
		Value:  "value1",
		Inline: false,
	}, output.Embeds[0].Fields[0])
	assert.EqualValues(suite.T(), discord.EmbedField{
		Name:   "\u200b",
		Value:  "\u200b",
		Inline: true,
	}, output.Embeds[0].Fields[1])
	assert.Nil(suite.T(), output.Embeds[0].Image)

	assert.Equal(suite.T(),
		api.AllowEveryoneMention,
		output.AllowedMentions.Parse[0],
	)
}

func (suite *DiscordTypeTestSuite) TestMarshalNoMention() {
	input := newMessageData()
	input.MentionEveryone = false

	output := marshalSendData(input)
	assert.Nil(suite.T(), output.AllowedMentions)
	assert.Equal(suite.T(), input.Content, output.Content)
}

func (suite *DiscordTypeTestSuite) TestCommandEvent() {
	e := &gateway.InteractionCreateEvent{
		InteractionEvent: discord.InteractionEvent{
			ID:    discord.InteractionID(11),
			AppID: discord.AppID(22),
			Token: "token",
			Data:  &discord.CommandInteraction{Name: defs.RiskCmd},
		},
	}

	info, data, ok := commandEvent(e)

	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), defs.EventInfo{ID: 11, AppID: 22, Token: "token"}, info)
	assert.Equal(suite.T(), defs.RiskCmd, data.Name)
}

func (suite *DiscordTypeTestSuite) TestCommandEventIgnoresOtherInteractions() {
	e := &gateway.InteractionCreateEvent{
		InteractionEvent: discord.InteractionEvent{
			ID:   discord.InteractionID(11),
			Data: &discord.PingInteraction{},
		},
	}

	_, _, ok := commandEvent(e)

	assert.False(suite.T(), ok)
}
