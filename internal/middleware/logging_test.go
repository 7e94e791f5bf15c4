// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// captureLog routes the default logger into a buffer for the test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func lastRecord(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var rec map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &rec); err != nil {
		t.Fatalf("decode log record %q: %v", buf.String(), err)
	}
	return rec
}

func TestLogger(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		path      string
		status    int
		body      string
		header    map[string]string
		wantLevel string
		wantIP    string
	}{
		{"ok page", http.MethodGet, "/posts", http.StatusOK, "hello", nil, "INFO", "192.0.2.1"},
		{"implicit 200", http.MethodGet, "/", 0, "hi", nil, "INFO", "192.0.2.1"},
		{"not found", http.MethodGet, "/missing", http.StatusNotFound, "", nil, "WARN", "192.0.2.1"},
		{"rate limited", http.MethodPost, "/api/zapier-proxy", http.StatusTooManyRequests, "", nil, "WARN", "192.0.2.1"},
		{"upstream failure", http.MethodPost, "/api/offline-conversion", http.StatusBadGateway, "", nil, "ERROR", "192.0.2.1"},
		{"forwarded client", http.MethodGet, "/trip", http.StatusOK, "", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "INFO", "203.0.113.7"},
		{"real ip header", http.MethodGet, "/trip", http.StatusOK, "", map[string]string{"X-Real-IP": "198.51.100.4"}, "INFO", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := captureLog(t)
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				if tt.body != "" {
					w.Write([]byte(tt.body))
				}
			})
			handler := chimw.RequestID(Logger(inner))

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			rec := lastRecord(t, buf)
			if rec["level"] != tt.wantLevel {
				t.Errorf("level: got %v, want %s", rec["level"], tt.wantLevel)
			}
			if rec["msg"] != "http request" {
				t.Errorf("msg: got %v", rec["msg"])
			}
			wantStatus := tt.status
			if wantStatus == 0 {
				wantStatus = http.StatusOK
			}
			if rec["status"] != float64(wantStatus) || rr.Code != wantStatus {
				t.Errorf("status: logged %v, served %d, want %d", rec["status"], rr.Code, wantStatus)
			}
			if rec["method"] != tt.method || rec["path"] != tt.path {
				t.Errorf("request: got %v %v", rec["method"], rec["path"])
			}
			if rec["bytes"] != float64(len(tt.body)) {
				t.Errorf("bytes: got %v, want %d", rec["bytes"], len(tt.body))
			}
			if rec["remote"] != tt.wantIP {
				t.Errorf("remote: got %v, want %s", rec["remote"], tt.wantIP)
			}
			if id, _ := rec["request_id"].(string); id == "" {
				t.Error("request_id should be logged")
			}
			if _, ok := rec["duration"]; !ok {
				t.Error("duration should be logged")
			}
		})
	}
}

func TestLoggerWithoutRequestID(t *testing.T) {
	buf := captureLog(t)
	handler := Logger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	if id := lastRecord(t, buf)["request_id"]; id != "" {
		t.Errorf("request_id: got %v, want empty", id)
	}
}

func TestResponseWriter(t *testing.T) {
	tests := []struct {
		name       string
		write      func(rw *responseWriter)
		wantStatus int
		wantBytes  int
	}{
		{"first WriteHeader wins", func(rw *responseWriter) {
			rw.WriteHeader(http.StatusNotFound)
			rw.WriteHeader(http.StatusInternalServerError)
		}, http.StatusNotFound, 0},
		{"Write implies 200", func(rw *responseWriter) {
			rw.Write([]byte("test"))
		}, http.StatusOK, 4},
		{"Write keeps explicit status", func(rw *responseWriter) {
			rw.WriteHeader(http.StatusCreated)
			rw.Write([]byte("created"))
		}, http.StatusCreated, 7},
		{"bytes accumulate", func(rw *responseWriter) {
			rw.Write([]byte("ab"))
			rw.Write([]byte("cde"))
		}, http.StatusOK, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			rw := &responseWriter{ResponseWriter: rr, statusCode: http.StatusOK}

			tt.write(rw)

			if !rw.written {
				t.Error("written should be set")
			}
			if rw.statusCode != tt.wantStatus || rr.Code != tt.wantStatus {
				t.Errorf("status: captured %d, served %d, want %d", rw.statusCode, rr.Code, tt.wantStatus)
			}
			if rw.bytes != tt.wantBytes {
				t.Errorf("bytes: got %d, want %d", rw.bytes, tt.wantBytes)
			}
		})
	}
}

func TestResponseWriterUnwrap(t *testing.T) {
	rr := httptest.NewRecorder()
	rw := &responseWriter{ResponseWriter: rr}
	if rw.Unwrap() != rr {
		t.Error("Unwrap should return the wrapped writer")
	}
}
