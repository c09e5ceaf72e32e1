// file: websocket/connection_test.go
package websocket

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fashion-registration/services"
)

// startLiveServer serves one page flow over a test WebSocket endpoint.
func startLiveServer(t *testing.T, flow *services.PageFlow, touch func()) *websocket.Conn {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeWs(w, r, flow, touch)
	}))
	t.Cleanup(server.Close)

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "WebSocket connection should succeed")
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

// readUntil reads messages until one matches the predicate.
func readUntil(t *testing.T, conn *websocket.Conn, match func(raw map[string]interface{}) bool) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		var raw map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &raw))
		if match(raw) {
			return raw
		}
	}
}

func visibleGroup(raw map[string]interface{}) string {
	form, ok := raw["form"].(map[string]interface{})
	if !ok {
		return ""
	}
	group, _ := form["visibleGroup"].(string)
	return group
}

func send(t *testing.T, conn *websocket.Conn, msg InboundMessage) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(msg))
}

// Test: the connection receives the current state on connect
func TestServeWs_InitialSnapshot(t *testing.T) {
	flow := services.NewPageFlow(services.NewSchema(false), nil)
	conn := startLiveServer(t, flow, nil)

	msg := readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionFormState })
	assert.Equal(t, "collecting", msg["state"])
	assert.Equal(t, "none", visibleGroup(msg))
}

// Test: setField over the socket updates the flow and pushes the new projection
func TestServeWs_SetFieldPushesProjection(t *testing.T) {
	flow := services.NewPageFlow(services.NewSchema(false), nil)
	var touched int32
	conn := startLiveServer(t, flow, func() { atomic.AddInt32(&touched, 1) })

	send(t, conn, InboundMessage{Action: ActionSetField, Field: "participantType", Value: "model"})
	msg := readUntil(t, conn, func(raw map[string]interface{}) bool { return visibleGroup(raw) == "model" })
	assert.Equal(t, "collecting", msg["state"])

	form, err := flow.Form()
	require.NoError(t, err)
	assert.Equal(t, "model", form.Snapshot().Values.ParticipantType)
	assert.Positive(t, atomic.LoadInt32(&touched))
}

// Test: unknown fields and actions are reported back
func TestServeWs_Errors(t *testing.T) {
	flow := services.NewPageFlow(services.NewSchema(false), nil)
	conn := startLiveServer(t, flow, nil)

	send(t, conn, InboundMessage{Action: ActionSetField, Field: "shoeSize", Value: "42"})
	msg := readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionError })
	assert.Equal(t, "unknown field", msg["message"])

	send(t, conn, InboundMessage{Action: "dance"})
	msg = readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionError })
	assert.Equal(t, "unknown action", msg["message"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionError })
	assert.Equal(t, "invalid message", msg["message"])
}

// Test: submit via HTTP is observed on the socket, and reset brings the form back
func TestServeWs_FollowsSubmitAndReset(t *testing.T) {
	flow := services.NewPageFlow(services.NewSchema(false), nil)
	conn := startLiveServer(t, flow, nil)
	readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionFormState })

	for name, value := range map[string]string{
		"fullName":        "Ivan Ivanov",
		"email":           "a@b.com",
		"phone":           "1234567890",
		"participantType": "guest",
		"interests":       "high-fashion",
	} {
		require.NoError(t, flow.SetField(name, value))
	}
	_, err := flow.Submit()
	require.NoError(t, err)

	msg := readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["state"] == "submitted" })
	assert.NotContains(t, msg, "form")

	send(t, conn, InboundMessage{Action: ActionSetField, Field: "fullName", Value: "Anna"})
	msg = readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["action"] == ActionError })
	assert.Equal(t, "registration already submitted", msg["message"])

	send(t, conn, InboundMessage{Action: ActionReset})
	readUntil(t, conn, func(raw map[string]interface{}) bool { return raw["state"] == "collecting" })
	assert.Equal(t, services.StateCollecting, flow.State())
}

// Test: a plain HTTP request is rejected by the upgrader
func TestServeWs_Failure(t *testing.T) {
	flow := services.NewPageFlow(services.NewSchema(false), nil)
	req, _ := http.NewRequest("GET", "/registration/live", nil)
	w := httptest.NewRecorder()

	ServeWs(w, req, flow, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code, "Expected failure when not upgrading to WebSocket")
}

// Test: foreign origins are refused unless allowed
func TestCheckOrigin(t *testing.T) {
	req, _ := http.NewRequest("GET", "http://fashion.local/registration/live", nil)
	req.Host = "fashion.local"

	assert.True(t, checkOrigin(req), "no Origin header")

	req.Header.Set("Origin", "http://fashion.local")
	assert.True(t, checkOrigin(req), "same host")

	req.Header.Set("Origin", "https://evil.example.com")
	assert.False(t, checkOrigin(req))

	SetAllowedOrigins("https://evil.example.com")
	defer SetAllowedOrigins()
	assert.True(t, checkOrigin(req))
}
