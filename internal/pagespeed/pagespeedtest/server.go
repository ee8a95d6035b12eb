// Package pagespeedtest provides an in-process stand-in for the PageSpeed Insights API.
package pagespeedtest

import (
	"net/http"
	"net/http/httptest"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const Path = "/pagespeedonline/v5/runPagespeed"

// Request is a recorded call to the fake API.
type Request struct {
	URL        string
	Strategy   string
	Key        string
	Categories []string
}

// Responder writes the response for one audited page URL.
type Responder func(w http.ResponseWriter, r *http.Request)

// Server routes audit requests by the audited page URL.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	pages    map[string]Responder
	requests []Request
}

func NewServer() *Server {
	s := &Server{pages: make(map[string]Responder)}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get(Path, s.serve)

	s.Server = httptest.NewServer(r)
	return s
}

// Endpoint is the URL to hand to the audit client.
func (s *Server) Endpoint() string {
	return s.URL + Path
}

// Handle registers the response for an audited page.
func (s *Server) Handle(pageURL string, fn Responder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[pageURL] = fn
}

// JSON registers a fixed JSON body for an audited page.
func (s *Server) JSON(pageURL string, status int, body string) {
	s.Handle(pageURL, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=UTF-8")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := q.Get("url")

	s.mu.Lock()
	s.requests = append(s.requests, Request{
		URL:        page,
		Strategy:   q.Get("strategy"),
		Key:        q.Get("key"),
		Categories: q["category"],
	})
	fn, ok := s.pages[page]
	s.mu.Unlock()

	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": {"code": 400, "message": "Lighthouse returned error: FAILED_DOCUMENT_REQUEST."}}`))
		return
	}
	fn(w, r)
}
