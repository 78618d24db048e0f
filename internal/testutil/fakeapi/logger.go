package fakeapi

import (
	"io"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// SetLogger включает журнал обработанных запросов.
func (s *Server) SetLogger(log *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = log.With(slog.String("component", "fakeapi"))
}

func (s *Server) logger() *slog.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.log
}

// logRequest пишет метод, путь, статус и длительность каждого запроса.
func (s *Server) logRequest(ctx huma.Context, next func(huma.Context)) {
	start := time.Now()
	method := ctx.Method()
	path := ctx.URL().Path

	next(ctx)

	s.logger().Info("HTTP request",
		slog.String("method", method),
		slog.String("path", path),
		slog.Int("status", ctx.Status()),
		slog.Duration("duration", time.Since(start)),
	)
}
