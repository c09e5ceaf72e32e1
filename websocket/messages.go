// Package websocket - websocket/messages.go
// JSON messages exchanged on the live registration form channel.
package websocket

import (
	"encoding/json"

	"fashion-registration/services"
)

// Inbound actions.
const (
	ActionSetField = "setField"
	ActionReset    = "reset"
	ActionSnapshot = "snapshot"
)

// Outbound actions.
const (
	ActionFormState = "formState"
	ActionError     = "error"
)

// InboundMessage is sent by the browser.
type InboundMessage struct {
	Action string `json:"action"`
	Field  string `json:"field,omitempty"`
	Value  string `json:"value,omitempty"`
}

// StateMessage carries the page state and, while collecting, the form state.
type StateMessage struct {
	Action string                 `json:"action"`
	State  string                 `json:"state"`
	Form   *services.FormSnapshot `json:"form,omitempty"`
}

// ErrorMessage reports a rejected inbound message.
type ErrorMessage struct {
	Action  string `json:"action"`
	Message string `json:"message"`
}

func encodeState(snap services.FlowSnapshot) ([]byte, error) {
	return json.Marshal(StateMessage{Action: ActionFormState, State: snap.State, Form: snap.Form})
}

func encodeError(msg string) ([]byte, error) {
	return json.Marshal(ErrorMessage{Action: ActionError, Message: msg})
}
