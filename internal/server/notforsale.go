// Package server exposes the chat-ops-free maintenance surface: a small
// JSON API over the not-for-sale list.
package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"sniper_go/internal/infra/storage"
)

// Server serves the not-for-sale list API.
type Server struct {
	store *storage.Storage
	http  *http.Server
}

// New creates the API server on addr.
func New(addr string, store *storage.Storage) *Server {
	s := &Server{store: store}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/notForSale", s.handleNotForSale)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return s
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		s.http.Shutdown(shutdownCtx)
	}()

	slog.Info("Not-for-sale API listening", slog.String("addr", s.http.Addr))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Not-for-sale API failed", slog.Any("error", err))
	}
}

type mintRequest struct {
	TokenAddress string `json:"tokenAddress"`
}

func (s *Server) handleNotForSale(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.list(w)
	case http.MethodPost:
		s.add(w, r)
	case http.MethodDelete:
		s.remove(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) list(w http.ResponseWriter) {
	mints, err := s.store.NotForSaleList()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{"data": []string{}, "error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"data": mints})
}

func (s *Server) add(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TokenAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tokenAddress is required"})
		return
	}
	if err := s.store.AddNotForSale(req.TokenAddress); err != nil {
		slog.Error("Failed to add not-for-sale mint", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "token added in not for sale list"})
}

func (s *Server) remove(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TokenAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "tokenAddress is required"})
		return
	}
	if err := s.store.RemoveNotForSale(req.TokenAddress); err != nil {
		slog.Error("Failed to remove not-for-sale mint", slog.Any("error", err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal Server Error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "token removed from not for sale list"})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
