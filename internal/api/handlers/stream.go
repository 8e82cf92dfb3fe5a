package handlers

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/RMahshie/wifiscope/internal/analyzer"
	"github.com/RMahshie/wifiscope/pkg/models"
)

// Send/receive timing and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12
)

// wsEnvelope wraps every message pushed to stream clients
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// StreamHandler pushes a fresh spectrum to websocket clients after every scan cycle
type StreamHandler struct {
	svc      analyzer.AnalyzerService
	upgrader websocket.Upgrader
}

// NewStreamHandler creates a stream handler. An empty origin list accepts any origin.
func NewStreamHandler(svc analyzer.AnalyzerService, allowedOrigins []string) *StreamHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &StreamHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
		},
	}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	band := models.BandNone
	if q := r.URL.Query().Get("band"); q != "" {
		b, err := models.ParseBand(q)
		if err != nil {
			http.Error(w, "unknown band", http.StatusBadRequest)
			return
		}
		band = b
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go drain(conn, done)

	events, cancel := h.svc.Subscribe()
	defer cancel()

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	if err := send(conn, wsEnvelope{Type: "spectrum", Data: h.svc.Spectrum(band)}); err != nil {
		log.Info().Err(err).Msg("Websocket initial write failed")
		return
	}

	for {
		select {
		case <-done:
			return
		case <-r.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return
			}

			msg := wsEnvelope{Type: "spectrum", Data: h.svc.Spectrum(band)}
			if ev.Err != nil {
				msg = wsEnvelope{Type: "scan_error", Error: ev.Err.Error()}
			}
			if err := send(conn, msg); err != nil {
				log.Info().Err(err).Msg("Websocket write failed")
				return
			}
		}
	}
}

// drain reads and discards client messages so control frames are processed
func drain(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func send(conn *websocket.Conn, msg wsEnvelope) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
