package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"

	"github.com/Eggie20/Online-Supermarket/pkg/logger"
)

func jsonLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestRequestLogging_AssignsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	var seen string
	h := RequestLogging(logger.NewWithWriter("storefront", "debug", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{}}`))
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", nil))

	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(CorrelationHeader))

	lines := jsonLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "INFO", lines[0]["level"])
	assert.Equal(t, "/api/v1/cart/items", lines[0]["path"])
	assert.EqualValues(t, http.StatusCreated, lines[0]["status"])
	assert.EqualValues(t, len(`{"data":{}}`), lines[0]["bytes"])
	assert.Equal(t, seen, lines[0]["correlation_id"])
}

func TestRequestLogging_KeepsClientCorrelationID(t *testing.T) {
	h := RequestLogging(slog.New(slog.DiscardHandler))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(CorrelationHeader, "corr-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "corr-abc", rec.Header().Get(CorrelationHeader))

	req.Header.Set(CorrelationHeader, strings.Repeat("x", maxCorrelationIDLen+1))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(CorrelationHeader), 36)
}

func TestAccessLevel(t *testing.T) {
	tests := []struct {
		path   string
		status int
		want   slog.Level
	}{
		{"/api/v1/cart", http.StatusOK, slog.LevelInfo},
		{"/api/v1/cart", http.StatusBadRequest, slog.LevelWarn},
		{"/api/v1/cart", http.StatusServiceUnavailable, slog.LevelError},
		{"/health/ready", http.StatusOK, slog.LevelDebug},
		{"/health/ready", http.StatusServiceUnavailable, slog.LevelError},
		{"/metrics", http.StatusOK, slog.LevelDebug},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, accessLevel(tt.path, tt.status), "%s %d", tt.path, tt.status)
	}
}

func TestRequestLogger_EnrichesContextLogger(t *testing.T) {
	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	spanCtx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled,
	}))

	tests := []struct {
		name   string
		ctx    context.Context
		header string
		want   map[string]string
		absent []string
	}{
		{
			name:   "nothing known",
			ctx:    context.Background(),
			absent: []string{"profile_id", "correlation_id", "trace_id"},
		},
		{
			name:   "profile from header",
			ctx:    logger.WithCorrelationID(context.Background(), "corr-1"),
			header: "guest",
			want:   map[string]string{"profile_id": "guest", "correlation_id": "corr-1"},
		},
		{
			name:   "validated profile wins over header",
			ctx:    WithProfileID(context.Background(), "alice"),
			header: "mallory",
			want:   map[string]string{"profile_id": "alice"},
		},
		{
			name: "trace ids",
			ctx:  spanCtx,
			want: map[string]string{"trace_id": "4bf92f3577b34da6a3ce929d0e0e4736", "span_id": "00f067aa0ba902b7"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := RequestLogger(logger.NewWithWriter("storefront", "info", &buf))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				logger.FromContext(r.Context()).Info("cart loaded")
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil).WithContext(tt.ctx)
			if tt.header != "" {
				req.Header.Set(ProfileHeader, tt.header)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			lines := jsonLines(t, &buf)
			require.Len(t, lines, 1)
			for k, v := range tt.want {
				assert.Equal(t, v, lines[0][k], k)
			}
			for _, k := range tt.absent {
				assert.NotContains(t, lines[0], k)
			}
		})
	}
}
