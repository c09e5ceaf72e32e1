// Package websocket: websocket/handler.go
package websocket

import (
	"errors"

	"fashion-registration/logger"
	"fashion-registration/services"
)

// handleIncoming applies one inbound message to the connection's page flow.
// State changes reach the browser through the flow subscription.
func handleIncoming(c *Connection, msg InboundMessage) {
	logger.Debug.Printf("[handleIncoming] Action=%s Field=%s", msg.Action, msg.Field)

	switch msg.Action {
	case ActionSetField:
		if err := c.flow.SetField(msg.Field, msg.Value); err != nil {
			logger.Warn.Printf("[handleIncoming] setField %q rejected: %v", msg.Field, err)
			c.pushError(describe(err))
		}
	case ActionReset:
		var err error
		if c.flow.State() == services.StateSubmitted {
			err = c.flow.Reset()
		} else {
			err = c.flow.ResetForm()
		}
		if err != nil {
			logger.Warn.Printf("[handleIncoming] reset rejected: %v", err)
			c.pushError(describe(err))
		}
	case ActionSnapshot:
		c.pushSnapshot(c.flow.Snapshot())
	default:
		logger.Debug.Printf("Unhandled action: %s", msg.Action)
		c.pushError("unknown action")
	}
}

func describe(err error) string {
	switch {
	case errors.Is(err, services.ErrUnknownField):
		return "unknown field"
	case errors.Is(err, services.ErrInvalidFieldValue):
		return "invalid value"
	case errors.Is(err, services.ErrInvalidTransition):
		return "registration already submitted"
	default:
		return err.Error()
	}
}
