package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/wifiscope/pkg/models"
)

type streamMessage struct {
	Type  string          `json:"type"`
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
}

func dialStream(t *testing.T, srv *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/spectrum" + query
	conn, resp, err := websocket.DefaultDialer.Dial(u, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) streamMessage {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg streamMessage
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestStream_InitialAndPushedSpectrum(t *testing.T) {
	events := make(chan models.ScanEvent, 1)
	svc := &MockAnalyzerService{}
	svc.On("Subscribe").Return((<-chan models.ScanEvent)(events), func() {})
	svc.On("Spectrum", models.Band24).Return(testSpectrum(models.Band24))

	mux := http.NewServeMux()
	mux.Handle("/ws/spectrum", NewStreamHandler(svc, nil))
	srv := httptest.NewServer(mux)
	defer srv.Close()

	conn := dialStream(t, srv, "?band=2.4GHz")

	msg := readMessage(t, conn)
	assert.Equal(t, "spectrum", msg.Type)
	var spec models.Spectrum
	require.NoError(t, json.Unmarshal(msg.Data, &spec))
	assert.Equal(t, models.Band24, spec.Band)
	require.Len(t, spec.Series, 2)
	assert.Equal(t, "B", spec.Series[0].SSID)

	events <- models.ScanEvent{ScanID: "scan-2", Band: models.Band24, At: time.Now()}
	msg = readMessage(t, conn)
	assert.Equal(t, "spectrum", msg.Type)

	events <- models.ScanEvent{ScanID: "scan-3", Err: errors.New("radio off")}
	msg = readMessage(t, conn)
	assert.Equal(t, "scan_error", msg.Type)
	assert.Equal(t, "radio off", msg.Error)

	close(events)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestStream_RejectsUnknownBand(t *testing.T) {
	svc := &MockAnalyzerService{}
	srv := httptest.NewServer(NewStreamHandler(svc, nil))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "?band=nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	svc.AssertNotCalled(t, "Subscribe")
}

func TestStream_OriginCheck(t *testing.T) {
	h := NewStreamHandler(&MockAnalyzerService{}, []string{"http://allowed.example"})

	req := httptest.NewRequest(http.MethodGet, "/ws/spectrum", nil)
	assert.True(t, h.upgrader.CheckOrigin(req), "same-origin requests carry no Origin header")

	req.Header.Set("Origin", "http://allowed.example")
	assert.True(t, h.upgrader.CheckOrigin(req))

	req.Header.Set("Origin", "http://evil.example")
	assert.False(t, h.upgrader.CheckOrigin(req))
}
