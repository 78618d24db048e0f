// Package fakeapi - REST API складского учета линз в памяти.
// Нужен тестам, чтобы проверять клиента на настоящем протоколе.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"sync"
	"testing"
	"time"

	"lensadmin/internal/domain/lens"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"golang.org/x/exp/slog"
)

// BasePath - путь, по которому смонтирован API инвентаря
const BasePath = "/api/inventory"

// Request - запрос, полученный сервером
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Server хранит линзы в памяти и отдает их через huma/chi.
type Server struct {
	mu         sync.Mutex
	lenses     map[int64]lens.Lens
	requests   []Request
	failStatus int
	omitTotal  bool
	now        func() time.Time
	log        *slog.Logger

	mux *chi.Mux
	ts  *httptest.Server
}

// New создает сервер с начальными данными seed.
func New(seed ...lens.Lens) *Server {
	s := &Server{
		lenses: make(map[int64]lens.Lens, len(seed)),
		now:    func() time.Time { return time.Now().UTC() },
		log:    discardLogger,
	}
	for _, l := range seed {
		s.lenses[l.ID] = l
	}

	s.mux = chi.NewMux()
	s.mux.Use(s.recordRequest)
	s.mux.Use(s.forceFailure)

	config := huma.DefaultConfig("Lens inventory (fake)", "1.0.0")
	config.DocsPath = ""
	// Без $schema в ответах: клиент должен получать тела как есть.
	config.CreateHooks = nil
	api := humachi.New(s.mux, config)
	s.setupRoutes(api)

	return s
}

// Start запускает сервер на случайном порту до конца теста.
func Start(t testing.TB, seed ...lens.Lens) *Server {
	t.Helper()

	s := New(seed...)
	s.ts = httptest.NewServer(s.mux)
	t.Cleanup(s.ts.Close)
	return s
}

// URL - корень API для data provider.
func (s *Server) URL() string {
	return s.ts.URL + BasePath
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// FailWith заставляет отвечать на все следующие запросы статусом status; 0 возвращает обычную работу.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
}

// OmitTotal отключает заголовок x-total-count.
func (s *Server) OmitTotal(omit bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.omitTotal = omit
}

// Requests возвращает все полученные запросы.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest возвращает последний запрос или нулевое значение.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

func (s *Server) Lens(id int64) (lens.Lens, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.lenses[id]
	return l, ok
}

func (s *Server) recordRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			body, _ = io.ReadAll(r.Body)
			r.Body = io.NopCloser(bytes.NewReader(body))
		}

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.Query(),
			Header: r.Header.Clone(),
			Body:   body,
		})
		s.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (s *Server) forceFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failStatus
		s.mu.Unlock()

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"detail":"forced failure"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// sorted возвращает неудаленные линзы по возрастанию id.
func (s *Server) sorted() []lens.Lens {
	out := make([]lens.Lens, 0, len(s.lenses))
	for _, l := range s.lenses {
		if l.DeletedAt == nil {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
