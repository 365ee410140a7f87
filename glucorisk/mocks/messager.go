package mocks

import (
	"glucotrend/glucorisk/defs"
)

// Messager records every message per channel. When Err is set, sends to the
// channels in FailOn return it instead.
type Messager struct {
	Channels map[string][]defs.MessageData
	Err      error
	FailOn   map[string]bool
}

func NewMessager() *Messager {
	return &Messager{Channels: make(map[string][]defs.MessageData)}
}

func (m *Messager) SendMessage(msgData defs.MessageData, chName string) (uint64, error) {
	if m.Err != nil && (m.FailOn == nil || m.FailOn[chName]) {
		return 0, m.Err
	}
	if _, ok := m.Channels[chName]; !ok {
		m.Channels[chName] = make([]defs.MessageData, 0)
	}
	m.Channels[chName] = append(m.Channels[chName], msgData)
	return uint64(len(m.Channels[chName])), nil
}

// Last returns the most recent message sent to chName.
func (m *Messager) Last(chName string) (defs.MessageData, bool) {
	msgs := m.Channels[chName]
	if len(msgs) == 0 {
		return defs.MessageData{}, false
	}
	return msgs[len(msgs)-1], true
}

type Display struct {
	*Messager
	Responses []defs.InteractionResponse
}

func NewDisplay() *Display {
	return &Display{Messager: NewMessager()}
}

func (d *Display) RespondInteraction(e defs.EventInfo, resp defs.InteractionResponse) error {
	d.Responses = append(d.Responses, resp)
	return nil
}
