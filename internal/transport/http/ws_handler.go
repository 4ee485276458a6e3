package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"probability-quiz-service/internal/app"
	"probability-quiz-service/internal/logging"
)

type WSHandler struct {
	service  *app.QuizService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Option *int `json:"option"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorMessage(code, message string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Code: code, Message: message}}
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
// ?session= resumes a live session; ?keep=1 leaves the session alive after disconnect.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())
	requested := r.URL.Query().Get("session")
	keep := r.URL.Query().Get("keep") == "1"

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	defer conn.Close()
	// The server's read/write timeouts were meant for the upgrade request, not the socket.
	_ = conn.SetReadDeadline(time.Time{})
	_ = conn.SetWriteDeadline(time.Time{})

	ctx := r.Context()
	view, err := h.service.Start(ctx, requested)
	if err != nil {
		_, code := classify(err)
		_ = conn.WriteJSON(errorMessage(code, err.Error()))
		return
	}
	sessionID := view.SessionID

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_, code := classify(err)
		_ = conn.WriteJSON(errorMessage(code, err.Error()))
		return
	}
	defer cancel()
	if !keep {
		defer h.service.End(context.WithoutCancel(ctx), sessionID)
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	// Single writer goroutine; gorilla connections allow one concurrent writer.
	go func() {
		defer close(writerDone)
		broken := false
		for msg := range send {
			if broken {
				// keep draining so senders never block on a dead connection
				continue
			}
			if err := conn.WriteJSON(msg); err != nil {
				logger.Debug().Err(err).Str("session", sessionID).Msg("ws write error")
				broken = true
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case ev, ok := <-updates:
				if !ok {
					// Session ended elsewhere; unblock the reader.
					_ = conn.Close()
					return
				}
				msg := outboundMessage[any]{Type: string(ev.Type), Payload: ev.View}
				if ev.Type == app.EventResult {
					msg.Payload = ev.Result
				}
				select {
				case send <- msg:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		var cmdErr error
		switch inbound.Type {
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.Option == nil {
				send <- errorMessage(ErrCodeInvalidRequest, "invalid answer payload")
				continue
			}
			_, _, cmdErr = h.service.SubmitAnswer(ctx, sessionID, *payload.Option)
		case "next":
			_, cmdErr = h.service.Advance(ctx, sessionID)
		case "reset":
			_, cmdErr = h.service.Reset(ctx, sessionID)
		default:
			send <- errorMessage(ErrCodeInvalidRequest, "unsupported message type")
			continue
		}
		if cmdErr != nil {
			_, code := classify(cmdErr)
			send <- errorMessage(code, cmdErr.Error())
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}
