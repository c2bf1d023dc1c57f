// Package fakebackend serves an in-process imitation of the chat backend
// for tests: topic listing, topic initialisation and question answering,
// with hooks to inject failures and delays.
package fakebackend

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Source is a citation in an answer. Page is any JSON value, so tests can
// send the backend's "Unknown" fallback.
type Source struct {
	Page   any    `json:"page"`
	Source string `json:"source"`
}

// Answer is a canned /ask reply.
type Answer struct {
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources,omitempty"`
	WordCount int      `json:"word_count,omitempty"`
	Topic     string   `json:"topic,omitempty"`
}

// Failure is a queued response returned instead of the normal one.
type Failure struct {
	Status int
	Body   any
}

// Request is a recorded inbound request.
type Request struct {
	Method      string
	Path        string
	ContentType string
	Body        map[string]any
}

// Server is a fake backend bound to a local httptest server.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	topics   []string
	active   string
	answers  map[string]Answer
	failures map[string][]Failure
	delays   map[string]time.Duration
	requests []Request
}

// New starts a fake backend that knows topics. It is closed when the test ends.
func New(t testing.TB, topics ...string) *Server {
	t.Helper()

	s := &Server{
		topics:   append([]string{}, topics...),
		answers:  make(map[string]Answer),
		failures: make(map[string][]Failure),
		delays:   make(map[string]time.Duration),
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(s.record)
	router.Get("/get-topics", s.getTopics)
	router.Post("/initialize-topic", s.initializeTopic)
	router.Post("/ask", s.ask)

	s.Server = httptest.NewServer(router)
	t.Cleanup(s.Close)
	return s
}

// SetTopics replaces the topic list.
func (s *Server) SetTopics(topics ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.topics = append([]string{}, topics...)
}

// SetAnswer sets the reply for questions about topic.
func (s *Server) SetAnswer(topic string, a Answer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers[topic] = a
}

// FailNext queues a failure for the next request to path. Queued failures
// are consumed in order.
func (s *Server) FailNext(path string, status int, body any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[path] = append(s.failures[path], Failure{Status: status, Body: body})
}

// SetDelay makes every request to path wait d before answering, or until
// the client goes away.
func (s *Server) SetDelay(path string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[path] = d
}

// Requests returns the recorded requests for path.
func (s *Server) Requests(path string) []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Request
	for _, r := range s.requests {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	return len(s.Requests(path))
}

// Active returns the most recently initialised topic.
func (s *Server) Active() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
		}
		if r.Body != nil && r.Method == http.MethodPost {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				rec.Body = body
			}
		}

		s.mu.Lock()
		s.requests = append(s.requests, rec)
		delay := s.delays[r.URL.Path]
		var failure *Failure
		if queue := s.failures[r.URL.Path]; len(queue) > 0 {
			failure = &queue[0]
			s.failures[r.URL.Path] = queue[1:]
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-r.Context().Done():
				return
			case <-time.After(delay):
			}
		}

		if failure != nil {
			writeJSON(w, failure.Status, failure.Body)
			return
		}

		ctx := withBody(r.Context(), rec.Body)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) getTopics(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	topics := append([]string{}, s.topics...)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

func (s *Server) initializeTopic(w http.ResponseWriter, r *http.Request) {
	topic := stringField(bodyFrom(r.Context()), "topic")
	if topic == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "error": "No topic provided"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.Contains(s.topics, topic) {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "Topic directory not found"})
		return
	}
	s.active = topic
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Topic %s initialized successfully", topic),
	})
}

func (s *Server) ask(w http.ResponseWriter, r *http.Request) {
	body := bodyFrom(r.Context())
	question := stringField(body, "question")
	topic := stringField(body, "topic")

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case question == "":
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No question provided"})
		return
	case topic == "":
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "No topic selected"})
		return
	case topic != s.active:
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "Invalid topic"})
		return
	}

	answer, ok := s.answers[topic]
	if !ok {
		text := fmt.Sprintf("About %s: %s", topic, question)
		answer = Answer{
			Answer:  text,
			Sources: []Source{{Page: 3, Source: fmt.Sprintf("PDF/%s/notes.pdf", topic)}},
		}
	}
	if answer.WordCount == 0 {
		answer.WordCount = len(strings.Fields(answer.Answer))
	}
	if answer.Topic == "" {
		answer.Topic = topic
	}
	writeJSON(w, http.StatusOK, answer)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if s, ok := v.(string); ok {
		// Raw bodies let tests send malformed JSON.
		_, _ = w.Write([]byte(s))
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func stringField(body map[string]any, key string) string {
	s, _ := body[key].(string)
	return strings.TrimSpace(s)
}
