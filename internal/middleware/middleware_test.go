package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"photo-gallery/internal/metrics"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	if rw.statusCode != http.StatusOK || rw.wroteHeader {
		t.Fatalf("initial state = %d/%v, want 200/false", rw.statusCode, rw.wroteHeader)
	}

	rw.WriteHeader(http.StatusNotFound)
	rw.WriteHeader(http.StatusInternalServerError)
	if rw.statusCode != http.StatusNotFound {
		t.Errorf("statusCode = %d, want first value 404", rw.statusCode)
	}

	n, err := rw.Write([]byte("test data"))
	if err != nil || n != 9 {
		t.Fatalf("Write() = %d, %v", n, err)
	}
	if rw.bytesWritten != 9 {
		t.Errorf("bytesWritten = %d, want 9", rw.bytesWritten)
	}
	if rw.Unwrap() != rec {
		t.Error("Unwrap() did not return the wrapped writer")
	}
}

func TestCORS(t *testing.T) {
	reached := false
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("GET", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/list", http.NoBody))

		if !reached {
			t.Error("GET did not reach the handler")
		}
		want := map[string]string{
			"Access-Control-Allow-Origin":    "*",
			"Access-Control-Request-Headers": "GET",
			"Access-Control-Allow-Methods":   "GET, OPTIONS",
		}
		for k, v := range want {
			if got := rec.Header().Get(k); got != v {
				t.Errorf("%s = %q, want %q", k, got, v)
			}
		}
	})

	t.Run("OPTIONS", func(t *testing.T) {
		reached = false
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/photo/a/b.jpg", http.NoBody))

		if reached {
			t.Error("preflight reached the handler")
		}
		if rec.Code != http.StatusNoContent {
			t.Errorf("status = %d, want 204", rec.Code)
		}
		if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
			t.Error("preflight missing Access-Control-Allow-Origin")
		}
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", http.NoBody))

		id := rec.Header().Get(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			t.Fatalf("response ID %q is not a UUID: %v", id, err)
		}
		if seen != id {
			t.Errorf("context ID = %q, want %q", seen, id)
		}
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" {
			t.Errorf("response ID = %q, want abc-123", got)
		}
	})

	t.Run("oversized replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		if _, err := uuid.Parse(rec.Header().Get(RequestIDHeader)); err != nil {
			t.Errorf("oversized ID was not replaced: %v", err)
		}
	})

	if RequestIDFromContext(context.Background()) != "" {
		t.Error("RequestIDFromContext on empty context should be empty")
	}
}

func TestLoggerSkipRules(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		config LoggingConfig
		logged bool
	}{
		{"photo request", "/photo/vacation/beach.jpg", DefaultLoggingConfig(), true},
		{"listing", "/list", DefaultLoggingConfig(), true},
		{"favicon", "/favicon.ico", DefaultLoggingConfig(), false},
		{"favicon with static logging", "/favicon.ico", LoggingConfig{LogStaticFiles: true, SkipExtensions: []string{".ico"}}, true},
		{"health logged", "/health", LoggingConfig{LogHealthChecks: true}, true},
		{"health skipped", "/health", LoggingConfig{LogHealthChecks: false}, false},
		{"skip path", "/internal/x", LoggingConfig{SkipPaths: []string{"/internal"}, LogHealthChecks: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var lines []string
			l := NewW3CLogger(tt.config, ServiceName)
			l.emit = func(line string) { lines = append(lines, line) }

			rec := httptest.NewRecorder()
			l.Middleware(okHandler("ok")).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, http.NoBody))

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			if got := len(lines) == 1; got != tt.logged {
				t.Errorf("logged = %v, want %v (lines: %q)", got, tt.logged, lines)
			}
		})
	}
}

func TestLoggerLineFormat(t *testing.T) {
	var line string
	l := NewW3CLogger(DefaultLoggingConfig(), ServiceName)
	fixed := time.Date(2024, 3, 4, 5, 6, 7, 0, time.UTC)
	l.now = func() time.Time { return fixed }
	l.emit = func(s string) { line = s }

	req := httptest.NewRequest(http.MethodGet, "/photo/vacation/my%20photo.jpg?x=1", http.NoBody)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("User-Agent", "curl/8.0\nforged line")
	req = req.WithContext(context.WithValue(req.Context(), requestIDKey{}, "rid-1"))

	rec := httptest.NewRecorder()
	l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	})).ServeHTTP(rec, req)

	want := `2024-03-04 05:06:07 10.0.0.1 GET /photo/vacation/my%20photo.jpg x=1 404 7 0 - "curl/8.0 forged line" - rid-1`
	if line != want {
		t.Errorf("log line =\n%q\nwant\n%q", line, want)
	}
}

func TestSanitizeLogField(t *testing.T) {
	tests := map[string]string{
		"plain":           "plain",
		"a\nb\rc":         "a b c",
		"null\x00byte":    "nullbyte",
		"esc\x1b[31mred":  "esc[31mred",
		"tab\tkept":       "tab\tkept",
		"bell\x07removed": "bellremoved",
	}
	for in, want := range tests {
		if got := sanitizeLogField(in); got != want {
			t.Errorf("sanitizeLogField(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.RemoteAddr = "192.168.1.1:1234"
	if got := getClientIP(req); got != "192.168.1.1" {
		t.Errorf("RemoteAddr IP = %q", got)
	}

	req.Header.Set("X-Real-IP", "10.1.1.1")
	if got := getClientIP(req); got != "10.1.1.1" {
		t.Errorf("X-Real-IP = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	if got := getClientIP(req); got != "203.0.113.5" {
		t.Errorf("X-Forwarded-For = %q", got)
	}
}

func TestRouteLabel(t *testing.T) {
	tests := map[string]string{
		"/list":                     "/list",
		"/version":                  "/version",
		"/album/vacation":           "/album/{name}",
		"/album/my%20trip":          "/album/{name}",
		"/album":                    "/album",
		"/album/":                   "/album",
		"/photo/vacation/beach.jpg": "/photo/{album}/{photo}",
		"/photo/vacation":           "/photo",
		"/photo/vacation/":          "/photo",
		"/photo/a/b/c":              "/photo",
		"/":                         "other",
		"/anything/else":            "other",
		"/list/extra":               "other",
		"/LIST":                     "/list",
		"/Album/Vacation":           "/album/{name}",
	}
	for path, want := range tests {
		if got := routeLabel(path); got != want {
			t.Errorf("routeLabel(%q) = %q, want %q", path, got, want)
		}
	}
}

func TestCaseInsensitiveRoutes(t *testing.T) {
	tests := []struct {
		target      string
		wantPath    string
		wantEscaped string
	}{
		{"/LIST", "/list", "/list"},
		{"/Album/Summer%20Trip", "/album/Summer Trip", "/album/Summer%20Trip"},
		{"/PHOTO/Vacation/Beach.JPG", "/photo/Vacation/Beach.JPG", "/photo/Vacation/Beach.JPG"},
		{"/ALBUM/a%2Fb", "/album/a/b", "/album/a%2Fb"},
		{"/photo/vacation/beach.jpg", "/photo/vacation/beach.jpg", "/photo/vacation/beach.jpg"},
		{"/", "/", "/"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var gotPath, gotEscaped string
			h := CaseInsensitiveRoutes(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
				gotPath, gotEscaped = r.URL.Path, r.URL.EscapedPath()
			}))

			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			h.ServeHTTP(httptest.NewRecorder(), req)

			if gotPath != tt.wantPath {
				t.Errorf("Path = %q, want %q", gotPath, tt.wantPath)
			}
			if gotEscaped != tt.wantEscaped {
				t.Errorf("EscapedPath() = %q, want %q", gotEscaped, tt.wantEscaped)
			}
			if req.URL.EscapedPath() != tt.target {
				t.Errorf("caller's request changed to %q", req.URL.EscapedPath())
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	h := Metrics(DefaultMetricsConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	counter := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/album/{name}", "404")
	before := testutil.ToFloat64(counter)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/album/nope", http.NoBody))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/album/other", http.NoBody))

	if got := testutil.ToFloat64(counter) - before; got != 2 {
		t.Errorf("request counter increased by %v, want 2", got)
	}

	health := metrics.HTTPRequestsTotal.WithLabelValues(http.MethodGet, "other", "404")
	before = testutil.ToFloat64(health)
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody))
	if testutil.ToFloat64(health) != before {
		t.Error("skipped path was recorded")
	}
}

func TestCompression(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		contentType    string
		acceptEncoding string
		compressed     bool
	}{
		{"large JSON", strings.Repeat(`{"name":"beach.jpg"}`, 100), "application/json", "gzip", true},
		{"JSON with charset", strings.Repeat(`["album"]`, 200), "application/json; charset=utf-8", "gzip, deflate", true},
		{"small JSON", `["a"]`, "application/json", "gzip", false},
		{"photo bytes", strings.Repeat("\xff\xd8data", 500), "image/jpg", "gzip", false},
		{"client without gzip", strings.Repeat("data", 500), "text/plain", "", false},
		{"gzip refused", strings.Repeat("data", 500), "text/plain", "gzip;q=0", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusOK)
				_, _ = w.Write([]byte(tt.body))
			}))

			req := httptest.NewRequest(http.MethodGet, "/list", http.NoBody)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusOK {
				t.Errorf("status = %d, want 200", rec.Code)
			}
			gotCompressed := rec.Header().Get("Content-Encoding") == "gzip"
			if gotCompressed != tt.compressed {
				t.Fatalf("compressed = %v, want %v", gotCompressed, tt.compressed)
			}

			body := rec.Body.String()
			if tt.compressed {
				gr, err := gzip.NewReader(rec.Body)
				if err != nil {
					t.Fatalf("gzip.NewReader: %v", err)
				}
				defer gr.Close()
				raw, err := io.ReadAll(gr)
				if err != nil {
					t.Fatal(err)
				}
				body = string(raw)
			}
			if body != tt.body {
				t.Error("body does not match what the handler wrote")
			}
		})
	}
}

func TestCompressionMultipleWritesAndStatus(t *testing.T) {
	h := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		for i := 0; i < 20; i++ {
			_, _ = w.Write([]byte(strings.Repeat("x", 100)))
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/list", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	gr, err := gzip.NewReader(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(gr)
	if len(raw) != 2000 {
		t.Errorf("decompressed %d bytes, want 2000", len(raw))
	}
}

func TestCompressionEmptyResponse(t *testing.T) {
	h := Compression(DefaultCompressionConfig())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Errorf("got %d with %d bytes, want 204 and no body", rec.Code, rec.Body.Len())
	}
}

func BenchmarkMiddlewareChain(b *testing.B) {
	l := NewW3CLogger(DefaultLoggingConfig(), ServiceName)
	l.emit = func(string) {}
	h := CORS(RequestID(l.Middleware(Metrics(DefaultMetricsConfig())(Compression(DefaultCompressionConfig())(okHandler("ok"))))))

	req := httptest.NewRequest(http.MethodGet, "/list", http.NoBody)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
