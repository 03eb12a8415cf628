package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithRequestLogging(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantLevel zapcore.Level
	}{
		{"ok", http.StatusOK, zapcore.InfoLevel},
		{"implicit ok", 0, zapcore.InfoLevel},
		{"not found", http.StatusNotFound, zapcore.InfoLevel},
		{"server error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			h := WithRequestLogging(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("body"))
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/accounts", nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.All()
			if len(entries) != 1 {
				t.Fatalf("got %d log entries; want 1", len(entries))
			}
			e := entries[0]
			if e.Level != tt.wantLevel {
				t.Errorf("level = %v; want %v", e.Level, tt.wantLevel)
			}
			fields := e.ContextMap()
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if fields["status"] != int64(wantStatus) {
				t.Errorf("status field = %v; want %d", fields["status"], wantStatus)
			}
			if fields["uri"] != "/api/accounts" || fields["method"] != http.MethodGet {
				t.Errorf("unexpected request fields: %v", fields)
			}
			if fields["size"] != int64(4) {
				t.Errorf("size field = %v; want 4", fields["size"])
			}
		})
	}
}

func TestNoStore(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/accounts", "no-store"},
		{"/api/accounts/1", "no-store"},
		{"/metrics", ""},
	}

	h := NoStore(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if got := w.Header().Get("Cache-Control"); got != tt.want {
				t.Errorf("Cache-Control = %q; want %q", got, tt.want)
			}
		})
	}
}
