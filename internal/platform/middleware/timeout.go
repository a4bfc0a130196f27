package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// timeoutWriter serializes access to the underlying ResponseWriter so the
// handler goroutine and the deadline path never interleave writes. Once
// the deadline fires, handler writes are swallowed.
type timeoutWriter struct {
	http.ResponseWriter
	mu       sync.Mutex
	timedOut bool
	wrote    bool
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.wrote = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	w.wrote = true
	return w.ResponseWriter.Write(b)
}

// expire marks the writer as timed out and reports whether the handler had
// already started the response. When it had not, the caller owns the
// underlying writer and may emit the 504.
func (w *timeoutWriter) expire() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.timedOut = true
	return !w.wrote
}

// RequestTimeout sets a context deadline on each incoming request. The
// roster and indicator queries inherit the deadline through the request
// context, so a stuck query surfaces as a 504 instead of hanging the
// dashboard.
func RequestTimeout(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
			defer cancel()

			c.SetRequest(c.Request().WithContext(ctx))

			tw := &timeoutWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = tw

			done := make(chan error, 1)
			go func() {
				done <- next(c)
			}()

			select {
			case err := <-done:
				return err
			case <-ctx.Done():
				if ctx.Err() != context.DeadlineExceeded {
					return ctx.Err()
				}
				if tw.expire() {
					h := tw.ResponseWriter.Header()
					h.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
					tw.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
					tw.ResponseWriter.Write([]byte(`{"message":"Tempo de processamento excedido"}` + "\n"))
				}
				return nil
			}
		}
	}
}
