package middleware

import (
	"bufio"
	"log/slog"
	"net"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// LoggingMiddleware создает middleware для логирования HTTP запросов.
// Логирует метод, путь, статус, время выполнения и размер ответа.
// Запросы к skipPaths (health checks, метрики) не логируются.
//
// Для websocket статус 101: соединение перехвачено (Hijack) и дальше
// живет вне HTTP, длительность в этом случае равна времени жизни сессии.
func LoggingMiddleware(logger *slog.Logger, skipPaths ...string) func(http.Handler) http.Handler {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skip[path] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skip[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			hijacked := false
			hooks := httpsnoop.Hooks{
				Hijack: func(hijack httpsnoop.HijackFunc) httpsnoop.HijackFunc {
					return func() (net.Conn, *bufio.ReadWriter, error) {
						conn, rw, err := hijack()
						if err == nil {
							hijacked = true
						}
						return conn, rw, err
					}
				},
			}

			m := httpsnoop.CaptureMetricsFn(w, func(w http.ResponseWriter) {
				next.ServeHTTP(httpsnoop.Wrap(w, hooks), r)
			})

			status := m.Code
			if hijacked {
				status = http.StatusSwitchingProtocols
			}

			logLevel := slog.LevelInfo
			if status >= 500 {
				logLevel = slog.LevelError
			} else if status >= 400 {
				logLevel = slog.LevelWarn
			}

			logger.Log(r.Context(), logLevel, "HTTP request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
				"status", status,
				"duration_ms", m.Duration.Milliseconds(),
				"bytes_written", m.Written,
			)
		})
	}
}
