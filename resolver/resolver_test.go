package resolver

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "http://127.0.0.1:3000"},
		{"   \t\n", "http://127.0.0.1:3000"},
		{"example.com", "http://example.com"},
		{"  example.com  ", "http://example.com"},
		{"https://example.com/", "https://example.com/"},
		{"http://example.com", "http://example.com"},
		{"HTTP://example.com", "http://HTTP://example.com"},
		{"ftp://example.com", "http://ftp://example.com"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "input %q", tt.in)
	}
}

func TestNormalize_FixedPoint(t *testing.T) {
	for _, in := range []string{"", "example.com", "https://example.com/", "localhost:3000/#/x"} {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once))
	}
}

func TestResolveLoginURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"default rule", "example.com", "http://example.com/login"},
		{"default rule trailing slashes", "https://example.com///", "https://example.com/login"},
		{"juice shop port", "localhost:3000", "http://localhost:3000/#/login"},
		{"juice shop name", "https://Juice-Shop.herokuapp.com/", "https://Juice-Shop.herokuapp.com/#/login"},
		{"hash route", "app.test/#/dashboard", "http://app.test/#/login"},
		{"hash route wins over juice", "juice.local:3000/#/search?q=1", "http://juice.local:3000/#/login"},
		{"already login", "http://site.com/signin", "http://site.com/signin"},
		{"already login case", "site.com/LOGIN", "http://site.com/LOGIN"},
		{"login in hash route", "app.test/#/login", "http://app.test/#/login"},
		{"blank input", "", "http://127.0.0.1:3000/#/login"},
		{"hash without slash kept by default rule", "site.com/#top", "http://site.com/#top/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveLoginURL(tt.in))
		})
	}
}

func TestResolveLoginURL_ReplacesFromFirstHash(t *testing.T) {
	assert.Equal(t, "http://a.test/#/login", ResolveLoginURL("a.test/#x#/y"))
}

func TestResolveTechStackURL(t *testing.T) {
	assert.Equal(t, "https://example.com", ResolveTechStackURL("https://example.com//"))
	assert.Equal(t, "http://example.com/app", ResolveTechStackURL(" example.com/app/ "))
	assert.Equal(t, DefaultTarget, ResolveTechStackURL(""))
}

func TestResolver_CustomHeuristics(t *testing.T) {
	r := New(Heuristics{
		HashRouteMarkers: []string{" DVWA ", ""},
		HashRoutePorts:   []int{8080},
	})

	assert.Equal(t, "http://dvwa.local/#/login", r.ResolveLoginURL("dvwa.local"))
	assert.Equal(t, "http://host:8080/#/login", r.ResolveLoginURL("host:8080/"))
	assert.Equal(t, "http://localhost:3000/login", r.ResolveLoginURL("localhost:3000"))
}

func TestResolver_NoHeuristics(t *testing.T) {
	r := New(Heuristics{})
	assert.Equal(t, "http://juice.local/login", r.ResolveLoginURL("juice.local"))
}

func TestResolve(t *testing.T) {
	links := Resolve("localhost:3000/")
	assert.Equal(t, Links{
		Target:    "http://localhost:3000/",
		Login:     "http://localhost:3000/#/login",
		TechStack: "http://localhost:3000",
	}, links)
}

func TestParseTarget(t *testing.T) {
	ti, err := ParseTarget("localhost:3000/#/search")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/#/search", ti.FullURL)
	assert.Equal(t, "http://localhost:3000", ti.BaseURL)
	assert.Equal(t, "localhost", ti.Domain)
	assert.Equal(t, "3000", ti.Port)
	assert.Equal(t, "http", ti.Scheme)
	assert.True(t, ti.IsLoopback())

	ti, err = ParseTarget("https://www.example.com/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.com", ti.BaseURL)
	assert.Empty(t, ti.Port)
	assert.False(t, ti.IsLoopback())
}

func TestParseTarget_EmptyHost(t *testing.T) {
	_, err := ParseTarget("http:///nohost")
	assert.ErrorIs(t, err, ErrEmptyHost)
}
