package http

import (
	"encoding/json"
	"net/http"

	"blockchainiq/internal/app"
	"blockchainiq/internal/bank"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the health, bank, and websocket endpoints.
func NewRouter(banks app.BankRepository, bankID string, ws *WSHandler, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Get("/api/bank", func(w http.ResponseWriter, r *http.Request) {
		b, err := banks.GetBank(r.Context(), bankID)
		if err != nil {
			logger.Error("load bank", zap.String("bankId", bankID), zap.Error(err))
			http.Error(w, "question bank unavailable", http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(bank.Summarize(b))
	})
	r.Get("/ws", ws.ServeWS)
	return r
}
