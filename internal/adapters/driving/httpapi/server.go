// Package httpapi serves the GitHub webhook endpoint.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/postsync/internal/core/domain"
	"github.com/custodia-labs/postsync/internal/core/ports/driving"
	"github.com/custodia-labs/postsync/internal/logger"
)

// GitHub webhook headers.
const (
	HeaderSignature = "X-Hub-Signature"
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
)

// Plain-text answers to GitHub's handshake events.
const (
	pingReply     = "Thanks for the ping!"
	unwantedReply = "No thank you"
)

// Config holds the server settings.
type Config struct {
	Addr         string
	SyncPath     string
	MaxBodyBytes int64
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// ConfigFromSettings builds a Config from application settings.
func ConfigFromSettings(settings domain.ServerSettings) Config {
	return Config{
		Addr:         settings.Addr,
		SyncPath:     settings.SyncPath,
		MaxBodyBytes: settings.MaxBodyBytes,
	}
}

// Server receives GitHub push notifications and hands them to inbound sync.
type Server struct {
	verifier driving.PushVerifier
	inbound  driving.InboundSync
	cfg      Config

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
	errChan  chan error
}

// NewServer creates a webhook server. Zero config values take defaults.
func NewServer(verifier driving.PushVerifier, inbound driving.InboundSync, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = domain.DefaultServerAddr
	}
	if cfg.SyncPath == "" {
		cfg.SyncPath = domain.DefaultSyncPath
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = domain.DefaultMaxBodyBytes
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = domain.DefaultReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = domain.DefaultWriteTimeout
	}
	return &Server{
		verifier: verifier,
		inbound:  inbound,
		cfg:      cfg,
		errChan:  make(chan error, 1),
	}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+s.cfg.SyncPath, s.handleSync)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// Start listens on the configured address and serves in the background.
// Serve errors are delivered on Err.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		return errors.New("server already started")
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Addr, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	logger.Info("Listening for GitHub webhooks on http://%s%s", listener.Addr(), s.cfg.SyncPath)
	return nil
}

// Addr returns the address the server listens on, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Err returns a channel that receives a fatal serve error.
func (s *Server) Err() <-chan error {
	return s.errChan
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	if server == nil {
		return nil
	}
	return server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	body, ok := s.readRequestBody(w, r)
	if !ok {
		return
	}

	delivery := r.Header.Get(HeaderDelivery)
	if !s.verifier.Verify(body, r.Header.Get(HeaderSignature)) {
		logger.Warn("Rejected webhook delivery %q: %v", delivery, domain.ErrInvalidSignature)
		writeError(w, http.StatusForbidden, domain.ErrInvalidSignature.Error())
		return
	}

	event := r.Header.Get(HeaderEvent)
	switch event {
	case domain.EventPing:
		logger.Info("ping: delivery %q", delivery)
		writeText(w, http.StatusOK, pingReply)
		return
	case domain.EventPush:
	default:
		logger.Debug("Ignoring %q event: %v", event, domain.ErrUnsupportedEvent)
		writeText(w, http.StatusBadRequest, unwantedReply)
		return
	}

	push, err := decodePush(r.Header.Get("Content-Type"), body)
	if err != nil {
		logger.Warn("Malformed push delivery %q: %v", delivery, err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	logger.Info("Push to %s with %d commit(s)", push.Ref, len(push.Commits))
	result, err := s.inbound.ApplyPush(r.Context(), push)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) readRequestBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body exceeds configured limit")
			return nil, false
		}
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return nil, false
	}
	return body, true
}

// decodePush accepts both webhook content types GitHub offers:
// application/json, and a form with the JSON in its payload field.
func decodePush(contentType string, body []byte) (*domain.PushEvent, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	raw := body
	if mediaType == "application/x-www-form-urlencoded" {
		form, err := url.ParseQuery(string(body))
		if err != nil {
			return nil, fmt.Errorf("%w: form body: %w", domain.ErrInvalidInput, err)
		}
		payload := form.Get("payload")
		if strings.TrimSpace(payload) == "" {
			return nil, fmt.Errorf("%w: form body has no payload", domain.ErrInvalidInput)
		}
		raw = []byte(payload)
	}

	var push domain.PushEvent
	if err := json.Unmarshal(raw, &push); err != nil {
		return nil, fmt.Errorf("%w: push payload: %w", domain.ErrInvalidInput, err)
	}
	return &push, nil
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func writeText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}
