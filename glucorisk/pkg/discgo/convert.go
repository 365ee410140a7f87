package discgo

import (
	"glucotrend/glucorisk/defs"

	"github.com/diamondburned/arikawa/v3/api"
	"github.com/diamondburned/arikawa/v3/discord"
)

// marshalSendData transforms data of type defs.MessageData to api.SendMessageData
// which arikawa expects.
func marshalSendData(data defs.MessageData) api.SendMessageData {
	embeds := make([]discord.Embed, 0, len(data.Embeds))
	for _, embed := range data.Embeds {
		fields := make([]discord.EmbedField, 0, len(embed.Fields))
		for _, field := range embed.Fields {
			fields = append(fields, discord.EmbedField{
				Name:   field.Name,
				Value:  field.Value,
				Inline: field.Inline,
			})
		}

		embeds = append(embeds, discord.Embed{
			Title:       embed.Title,
			Description: embed.Description,
			Fields:      fields,
		})
	}

	md := api.SendMessageData{
		Content: data.Content,
		Embeds:  embeds,
	}

	if data.MentionEveryone {
		md.AllowedMentions = &api.AllowedMentions{
			Parse: []api.AllowedMentionType{api.AllowEveryoneMention},
		}
	}

	return md
}
