// Package web exposes HTTP endpoints serving a minimal dashboard and
// SSE streams. It is a read-only consumer of engine state: it only
// subscribes to published updates and replays the activity WAL.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/nonagonchain/dexcore/internal/events"
	"github.com/nonagonchain/dexcore/internal/storage/activitylog"
)

const activityPollInterval = 2 * time.Second

type activityReader interface {
	EventsAfter(index uint64) ([]activitylog.EventRecord, error)
}

// Server exposes HTTP endpoints serving the HTML UI and SSE streams.
type Server struct {
	Addr          string
	Updates       *events.Broadcaster
	ActivityStore activityReader
}

// NewServer creates a new web server instance.
func NewServer(addr string, updates *events.Broadcaster, activityStore activityReader) *Server {
	return &Server{Addr: addr, Updates: updates, ActivityStore: activityStore}
}

// Start runs the HTTP server (blocking) and shuts it down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ledger/stream", s.handleLedgerStream)
	mux.HandleFunc("/activity/stream", s.handleActivityStream)

	server := &http.Server{
		Addr:              s.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
}

func (s *Server) handleLedgerStream(w http.ResponseWriter, r *http.Request) {
	if s.Updates == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "ledger updates not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// comment heartbeat every 30s so proxies keep the connection
	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	updates := s.Updates.Subscribe()
	defer s.Updates.Unsubscribe(updates)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case update, open := <-updates:
			if !open {
				return
			}
			payload, err := json.Marshal(update)
			if err != nil {
				log.Printf("ledger stream encode: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: ledger\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}

func (s *Server) handleActivityStream(w http.ResponseWriter, r *http.Request) {
	if s.ActivityStore == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "activity store not available")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	pollTicker := time.NewTicker(activityPollInterval)
	defer pollTicker.Stop()

	lastIndex := uint64(0)
	sendEvents := func() error {
		records, err := s.ActivityStore.EventsAfter(lastIndex)
		if err != nil {
			return err
		}
		for _, record := range records {
			payload, err := json.Marshal(record.Event)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "event: activity\n")
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
			lastIndex = record.Index
		}
		return nil
	}

	if err := sendEvents(); err != nil {
		http.Error(w, "failed to load activity events", http.StatusInternalServerError)
		log.Printf("activity stream initial load: %v", err)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case <-pollTicker.C:
			if err := sendEvents(); err != nil {
				log.Printf("activity stream poll: %v", err)
				return
			}
		}
	}
}
