package interview

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	interviewservice "github.com/arunvijo/Smart-Forensic-AI/internal/service/interview"
)

// WebSocketHandler drives the interview over a duplex connection, so a
// browser front end can keep one channel open for the whole conversation and
// receive sketches as they are generated.
type WebSocketHandler struct {
	svc      InterviewService
	upgrader websocket.Upgrader
}

// NewWebSocketHandler creates the websocket interview handler.
func NewWebSocketHandler(svc InterviewService) *WebSocketHandler {
	return &WebSocketHandler{
		svc: svc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterWebSocketRoutes mounts the websocket endpoint.
func (h *WebSocketHandler) RegisterWebSocketRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

type turnMessage struct {
	Text string `json:"text"`
}

func (h *WebSocketHandler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		http.Error(w, "sessionID is required", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	log.Info().Str("session", sessionID).Msg("interview websocket opened")

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Err(err).Str("session", sessionID).Msg("websocket read failed")
			}
			break
		}

		switch msg.Type {
		case "turn":
			h.processTurn(conn, r, sessionID, msg.Data)
		case "reset":
			h.svc.Reset(r.Context(), sessionID)
			h.send(conn, sessionID, "reset", map[string]string{"status": "reset"})
		default:
			h.send(conn, sessionID, "error", map[string]string{
				"code":    "unknown_type",
				"message": "unsupported message type: " + msg.Type,
			})
		}
	}

	log.Info().Str("session", sessionID).Msg("interview websocket closed")
}

func (h *WebSocketHandler) processTurn(conn *websocket.Conn, r *http.Request, sessionID string, data json.RawMessage) {
	var turn turnMessage
	if len(data) > 0 {
		if err := json.Unmarshal(data, &turn); err != nil {
			h.send(conn, sessionID, "error", map[string]string{
				"code":    "bad_payload",
				"message": "turn data must be an object with a text field",
			})
			return
		}
	}

	result, err := h.svc.Turn(r.Context(), interviewservice.TurnRequest{
		Identity: sessionID,
		Text:     turn.Text,
	})
	if err != nil {
		h.send(conn, sessionID, "error", turnErrorData(err))
		return
	}

	h.send(conn, sessionID, "reply", map[string]any{
		"reply": result.Reply,
		"done":  result.Done,
	})
	if result.Sketch != nil {
		h.send(conn, sessionID, "sketch", result.Sketch)
	}
}

func (h *WebSocketHandler) send(conn *websocket.Conn, sessionID, msgType string, data interface{}) {
	out := outgoingMessage{
		Type:      msgType,
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	if err := conn.WriteJSON(out); err != nil {
		log.Warn().Err(err).Str("session", sessionID).Msg("websocket write failed")
	}
}

func turnErrorData(err error) map[string]string {
	switch {
	case errors.Is(err, interviewservice.ErrEmptyInput):
		return map[string]string{"code": "empty_input", "message": "nothing to process: please describe the suspect"}
	case errors.Is(err, interviewservice.ErrExtractionFailed):
		return map[string]string{"code": "extraction_failed", "message": "sorry, I had trouble understanding that, please try again"}
	default:
		return map[string]string{"code": "internal", "message": "interview turn failed"}
	}
}
