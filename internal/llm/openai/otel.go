package openai

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/bakkerme/arxiv-bot/internal/config"
)

// captureMiddleware annotates the active span with request/response metadata
// and, when enabled, the (bounded) request and response bodies.
func captureMiddleware(cfg config.OpenAIOTelEnvConfig) option.Middleware {
	return func(req *http.Request, next option.MiddlewareNext) (*http.Response, error) {
		span := trace.SpanFromContext(req.Context())

		if cfg.CaptureBodies && span.IsRecording() && req.Body != nil {
			req.Body = newCaptureReadCloser(req.Body, cfg.MaxBodyBytes, func(body []byte, truncated bool) {
				span.AddEvent("openai.request.body", trace.WithAttributes(
					attribute.String("http.method", req.Method),
					attribute.String("http.url", req.URL.String()),
					attribute.String("body", utf8Clean(body)),
					attribute.Bool("truncated", truncated),
				))
			})
		}

		res, err := next(req)
		if err != nil || res == nil {
			return res, err
		}

		if span.IsRecording() {
			span.AddEvent("openai.response.meta", trace.WithAttributes(
				attribute.Int("http.status_code", res.StatusCode),
			))
		}
		if cfg.CaptureBodies && span.IsRecording() && res.Body != nil {
			res.Body = newCaptureReadCloser(res.Body, cfg.MaxBodyBytes, func(body []byte, truncated bool) {
				span.AddEvent("openai.response.body", trace.WithAttributes(
					attribute.Int("http.status_code", res.StatusCode),
					attribute.String("body", utf8Clean(body)),
					attribute.Bool("truncated", truncated),
				))
			})
		}
		return res, nil
	}
}

type captureReadCloser struct {
	rc        io.ReadCloser
	maxBytes  int
	buf       bytes.Buffer
	truncated bool
	closeOnce sync.Once
	onClose   func([]byte, bool)
}

func newCaptureReadCloser(rc io.ReadCloser, maxBytes int, onClose func([]byte, bool)) io.ReadCloser {
	if rc == nil {
		return rc
	}
	if maxBytes <= 0 {
		maxBytes = 64 * 1024
	}
	return &captureReadCloser{rc: rc, maxBytes: maxBytes, onClose: onClose}
}

func (c *captureReadCloser) Read(p []byte) (int, error) {
	n, err := c.rc.Read(p)
	if n > 0 {
		remaining := c.maxBytes - c.buf.Len()
		switch {
		case remaining >= n:
			c.buf.Write(p[:n])
		case remaining > 0:
			c.buf.Write(p[:remaining])
			c.truncated = true
		default:
			c.truncated = true
		}
	}
	return n, err
}

func (c *captureReadCloser) Close() error {
	c.closeOnce.Do(func() {
		if c.onClose != nil {
			c.onClose(c.buf.Bytes(), c.truncated)
		}
	})
	return c.rc.Close()
}

// utf8Clean keeps attribute payloads valid UTF-8; invalid bytes are replaced.
func utf8Clean(b []byte) string {
	return strings.ToValidUTF8(string(b), "�")
}
