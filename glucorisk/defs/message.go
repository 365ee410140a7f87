package defs

import "errors"

var ErrNoDexcom = errors.New("dexcom source is not configured")

// MessageData is a transport-neutral chat message; pkg/discgo converts it to
// what arikawa expects.
type MessageData struct {
	Content         string
	Embeds          []EmbedData
	MentionEveryone bool
}

type EmbedData struct {
	Title       string
	Description string
	Fields      []EmbedField
}

type EmbedField struct {
	Name   string
	Value  string
	Inline bool
}

// EmptyEmbed pads an inline row.
func EmptyEmbed() EmbedField {
	return EmbedField{Name: "\u200b", Value: "\u200b", Inline: true}
}
