package browser

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
	)
}

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"example.com", "https://example.com", false},
		{"  http://localhost:8000/docs ", "http://localhost:8000/docs", false},
		{"https://example.com/a?b=c", "https://example.com/a?b=c", false},
		{"", "", true},
		{"ftp://example.com", "", true},
		{"file:///etc/passwd", "", true},
		{"https://", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "Athlon Docs", Title("<html><head><title>\n  Athlon   Docs </title></head></html>"))
	assert.Equal(t, "", Title("<p>no title</p>"))
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "athlonos-browser/1.0", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<!DOCTYPE html><html><head><title>Welcome</title><script>alert(1)</script></head>
<body><h1>Athlon OS</h1><p>A desktop in your terminal.</p><ul><li>Files</li><li>Agent</li></ul></body></html>`))
	}))
	defer srv.Close()

	page, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Welcome", page.Title)
	assert.Contains(t, page.Text, "# Athlon OS")
	assert.Contains(t, page.Text, "A desktop in your terminal.")
	assert.Contains(t, page.Text, "• Files")
	assert.NotContains(t, page.Text, "alert")
}

func TestHTTPFetcher_PlainText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte("  just text  \n"))
	}))
	defer srv.Close()

	page, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "just text", page.Text)
	assert.Equal(t, page.URL, page.Title)
}

func TestHTTPFetcher_MaxBytes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(strings.Repeat("a", 100)))
	}))
	defer srv.Close()

	page, err := NewHTTPFetcher(Config{MaxBytes: 10}).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, page.Text, 10)
}

func TestHTTPFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewHTTPFetcher(Config{}).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestNew_SelectsFetcher(t *testing.T) {
	assert.IsType(t, &HTTPFetcher{}, New(Config{}))
	assert.IsType(t, &RodFetcher{}, New(Config{Headless: true}))
}
