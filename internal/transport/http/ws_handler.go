package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"blockchainiq/internal/app"
	"blockchainiq/internal/domain"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSConfig tunes the websocket adapter.
type WSConfig struct {
	// FeedbackDelay is the pause between answer feedback and the next state.
	FeedbackDelay time.Duration
	// PublicURL is linked from share links.
	PublicURL string
	// KeepSessions leaves a session in the store when its socket ends so a
	// client can resume it with ?sessionId=. The store's TTL expires it.
	KeepSessions bool
}

type WSHandler struct {
	service  *app.QuizService
	cfg      WSConfig
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, cfg WSConfig, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service: service,
		cfg:     cfg,
		logger:  logger,
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

type startPayload struct {
	Name string `json:"name"`
}

type answerPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type resultPayload struct {
	Result      domain.Result    `json:"result"`
	Certificate *app.Certificate `json:"certificate,omitempty"`
	Share       *app.ShareLinks  `json:"share,omitempty"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and drives one quiz session per
// connection. A sessionId query parameter resumes an existing session.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	snap, resumed, err := h.attach(ctx, r.URL.Query().Get("sessionId"))
	if err != nil {
		h.logInternal("attach session", "", err)
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: toErrorPayload(err)})
		return
	}
	sessionID := snap.SessionID
	log := h.logger.With(zap.String("sessionId", sessionID))
	if resumed {
		log.Debug("session resumed", zap.Int("currentIndex", snap.CurrentIndex))
	}
	if !h.cfg.KeepSessions {
		defer func() {
			if err := h.service.Close(ctx, sessionID); err != nil {
				log.Warn("close session failed", zap.Error(err))
			}
		}()
	}

	out := make(chan outboundMessage[any], 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range out {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	send := func(typ string, payload any) bool {
		select {
		case out <- outboundMessage[any]{Type: typ, Payload: payload}:
			return true
		case <-writerDone:
			return false
		}
	}
	sendErr := func(err error) {
		h.logInternal("handle frame", sessionID, err)
		send("error", toErrorPayload(err))
	}

	send("state", snap)
	if resumed && snap.Result != nil {
		send("result", h.buildResult(r, sessionID, *snap.Result))
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			var payload startPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send("error", errorPayload{Code: "bad_request", Message: "invalid start payload"})
				continue
			}
			snap, err := h.service.Start(ctx, sessionID, payload.Name)
			if err != nil {
				sendErr(err)
				continue
			}
			send("state", snap)
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil || payload.OptionIndex == nil {
				send("error", errorPayload{Code: "bad_request", Message: "invalid answer payload"})
				continue
			}
			snap, feedback, err := h.service.SubmitAnswer(ctx, sessionID, *payload.OptionIndex)
			if err != nil {
				sendErr(err)
				continue
			}
			if !send("feedback", feedback) {
				continue
			}
			// The pause is part of the presentation and cannot be cut short.
			if h.cfg.FeedbackDelay > 0 {
				time.Sleep(h.cfg.FeedbackDelay)
			}
			send("state", snap)
			if snap.Result != nil {
				send("result", h.buildResult(r, sessionID, *snap.Result))
			}
		case "restart":
			snap, err := h.service.Restart(ctx, sessionID)
			if err != nil {
				sendErr(err)
				continue
			}
			send("state", snap)
		case "review":
			items, err := h.service.Review(ctx, sessionID)
			if err != nil {
				sendErr(err)
				continue
			}
			send("review", items)
		default:
			send("error", errorPayload{Code: "bad_request", Message: "unsupported message type"})
		}
	}

	close(out)
	<-writerDone
}

// attach resumes the requested session or opens a new one when none is requested or it has expired.
func (h *WSHandler) attach(ctx context.Context, sessionID string) (app.Snapshot, bool, error) {
	if sessionID != "" {
		snap, err := h.service.Get(ctx, sessionID)
		if err == nil {
			return snap, true, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return app.Snapshot{}, false, err
		}
	}
	snap, err := h.service.Open(ctx)
	return snap, false, err
}

func (h *WSHandler) logInternal(op, sessionID string, err error) {
	if toErrorPayload(err).Code != codeInternal {
		return
	}
	h.logger.Error("ws request failed", zap.String("op", op), zap.String("sessionId", sessionID), zap.Error(err))
}

func (h *WSHandler) buildResult(r *http.Request, sessionID string, result domain.Result) resultPayload {
	payload := resultPayload{Result: result}
	if !result.Passed {
		return payload
	}
	cert, ok, err := h.service.Award(r.Context(), sessionID)
	if err != nil {
		h.logger.Warn("award failed", zap.String("sessionId", sessionID), zap.Error(err))
		return payload
	}
	if ok {
		share := app.NewShareLinks(h.cfg.PublicURL, result.ScorePercent)
		payload.Certificate = &cert
		payload.Share = &share
	}
	return payload
}

const codeInternal = "internal"

// toErrorPayload maps domain errors to client codes. Anything else is reported
// as internal without its message.
func toErrorPayload(err error) errorPayload {
	var code string
	switch {
	case errors.Is(err, domain.ErrInvalidName):
		code = "invalid_name"
	case errors.Is(err, domain.ErrInvalidTransition):
		code = "invalid_transition"
	case errors.Is(err, domain.ErrOptionOutOfRange):
		code = "option_out_of_range"
	case errors.Is(err, domain.ErrNotCompleted):
		code = "not_completed"
	case errors.Is(err, domain.ErrSessionNotFound):
		code = "session_not_found"
	default:
		return errorPayload{Code: codeInternal, Message: "internal error"}
	}
	return errorPayload{Code: code, Message: err.Error()}
}
