package web_scanner

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-reconx/httpclient"
	"go-reconx/models"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func newScanner() *WebScanner {
	return New(httpclient.New(httpclient.Options{Timeout: time.Second}))
}

func TestInjectPayload(t *testing.T) {
	u, err := injectPayload("http://a.test/search")
	require.NoError(t, err)
	parsed, _ := url.Parse(u)
	assert.Equal(t, xssPayload, parsed.Query().Get("q"))

	u, err = injectPayload("http://a.test/search?term=x&page=2")
	require.NoError(t, err)
	parsed, _ = url.Parse(u)
	assert.Equal(t, xssPayload, parsed.Query().Get("term"))
	assert.Equal(t, xssPayload, parsed.Query().Get("page"))
	assert.Empty(t, parsed.Query().Get("q"))
}

func TestExtractFields(t *testing.T) {
	html := `<html><body>
		<form><input name="user"><input type="password" name="pw"><input name="password2">
		<textarea name="comment"></textarea><input name="user"><input type="submit"></form>
		<input name="outside">
	</body></html>`

	assert.Equal(t, []string{"user", "comment"}, extractFields(html))
}

func TestWebScanner_checkHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-frame-options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
	}))
	defer srv.Close()

	v := newScanner().checkHeaders(context.Background(), srv.URL)
	require.NotNil(t, v)
	assert.Equal(t, "Missing Security Headers: X-XSS-Protection, Strict-Transport-Security", v.Description)
}

func TestWebScanner_checkHeadersAllPresent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range securityHeaders {
			w.Header().Set(h, "1")
		}
	}))
	defer srv.Close()

	assert.Nil(t, newScanner().checkHeaders(context.Background(), srv.URL))
}

func TestWebScanner_checkCORS(t *testing.T) {
	tests := []struct {
		name   string
		origin string
		creds  string
		want   []string
	}{
		{"none", "", "", nil},
		{"wildcard", "*", "", []string{"Access-Control-Allow-Origin allows wildcard (*)"}},
		{"wildcard with credentials", "*", "TRUE", []string{
			"Access-Control-Allow-Origin allows wildcard (*)",
			"Wildcard ACAO with credentials enabled",
		}},
		{"reflected", "reflect", "", []string{"Access-Control-Allow-Origin reflects arbitrary Origin"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				origin := tt.origin
				if origin == "reflect" {
					origin = r.Header.Get("Origin")
				}
				if origin != "" {
					w.Header().Set("Access-Control-Allow-Origin", origin)
				}
				if tt.creds != "" {
					w.Header().Set("Access-Control-Allow-Credentials", tt.creds)
				}
			}))
			defer srv.Close()

			var got []string
			for _, v := range newScanner().checkCORS(context.Background(), srv.URL) {
				got = append(got, v.Description)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWebScanner_Run(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, h := range securityHeaders[1:] {
			w.Header().Set(h, "1")
		}
		if name := r.URL.Query().Get("name"); name != "" {
			_, _ = w.Write([]byte("<p>Hello " + name + "</p>"))
			return
		}
		_, _ = w.Write([]byte(`<form><input name="name"></form>`))
	}))
	defer srv.Close()

	target := &models.TargetInfo{FullURL: srv.URL + "/", BaseURL: srv.URL}
	dto, err := newScanner().Run(context.Background(), target)
	require.NoError(t, err)

	require.Len(t, dto.Vulnerabilities, 2)
	assert.Equal(t, "Missing Security Headers: Content-Security-Policy", dto.Vulnerabilities[0].Description)
	assert.Equal(t, "Possible XSS", dto.Vulnerabilities[1].Title)
	assert.Contains(t, dto.Vulnerabilities[1].Description, "parameter 'name'")
	assert.Contains(t, dto.Vulnerabilities[1].Evidence, "name=")
}

func TestWebScanner_RunUnreachable(t *testing.T) {
	target := &models.TargetInfo{FullURL: "http://127.0.0.1:1/", BaseURL: "http://127.0.0.1:1"}
	dto, err := newScanner().Run(context.Background(), target)
	require.NoError(t, err)
	assert.Empty(t, dto.Vulnerabilities)
}
