// Package sparkposttest provides an in-process fake SparkPost API for
// tests and local integration runs. The server records every received
// transmission and answers with provider-shaped results.
package sparkposttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/google/uuid"
)

// Transmission is a single recorded POST /transmissions request.
type Transmission struct {
	// Header is the full request header set as received.
	Header http.Header
	// Body is the decoded JSON payload.
	Body map[string]any
}

// Server is a fake SparkPost API backed by httptest.
// Safe for concurrent use.
type Server struct {
	srv *httptest.Server

	mu         sync.Mutex
	received   []Transmission
	failStatus int
	failBody   string
}

// NewServer starts a fake SparkPost server. Callers must Close it.
func NewServer() *Server {
	s := &Server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/transmissions", s.handleTransmissions)
	s.srv = httptest.NewServer(mux)
	return s
}

// URL returns the API base URL, suitable for sparkpost.Config.BaseURL.
func (s *Server) URL() string {
	return s.srv.URL + "/api/v1"
}

// Close shuts the underlying test server down.
func (s *Server) Close() {
	s.srv.Close()
}

// RespondWith forces subsequent transmissions to fail with the given
// status and raw response body. Requests are still recorded.
func (s *Server) RespondWith(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = body
}

// Transmissions returns a copy of every recorded transmission.
func (s *Server) Transmissions() []Transmission {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Transmission, len(s.received))
	copy(out, s.received)
	return out
}

func (s *Server) handleTransmissions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if r.Header.Get("Authorization") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"errors":[{"message":"Unauthorized."}]}`)
		return
	}

	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"errors":[{"message":"invalid JSON payload"}]}`)
		return
	}

	s.mu.Lock()
	s.received = append(s.received, Transmission{
		Header: r.Header.Clone(),
		Body:   body,
	})
	failStatus, failBody := s.failStatus, s.failBody
	s.mu.Unlock()

	if failStatus != 0 {
		w.WriteHeader(failStatus)
		fmt.Fprint(w, failBody)
		return
	}

	accepted := 0
	if recipients, ok := body["recipients"].([]any); ok {
		accepted = len(recipients)
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"results": map[string]any{
			"id":                        uuid.NewString(),
			"total_accepted_recipients": accepted,
			"total_rejected_recipients": 0,
		},
	})
}
