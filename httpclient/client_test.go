package httpclient

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/old" {
			http.Redirect(w, r, "/new", http.StatusFound)
			return
		}
		w.Header().Set("X-Seen-UA", r.UserAgent())
		w.Header().Set("X-Seen-Origin", r.Header.Get("Origin"))
		_, _ = w.Write([]byte("hello"))
	}))
	defer srv.Close()

	c := New(Options{Timeout: time.Second, UserAgent: "test-agent"})

	resp, err := c.Get(context.Background(), srv.URL+"/old", map[string]string{"Origin": "https://o.test"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "hello", resp.Body)
	assert.Equal(t, "test-agent", resp.Header.Get("X-Seen-UA"))
	assert.Equal(t, "https://o.test", resp.Header.Get("X-Seen-Origin"))
	assert.Equal(t, srv.URL+"/new", resp.URL)
}

func TestClient_GetCancelled(t *testing.T) {
	c := New(Options{RateLimit: 1})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Get(ctx, "http://127.0.0.1:1/", nil)
	assert.Error(t, err)
}
