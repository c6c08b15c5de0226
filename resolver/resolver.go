package resolver

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultTarget is used when the operator leaves the target blank.
const DefaultTarget = "http://127.0.0.1:3000"

// hashFragment matches a hash route from the first '#' to the end.
var hashFragment = regexp.MustCompile(`#/?.*$`)

// Heuristics lists the markers of applications whose login page lives
// behind a hash route even when the target URL has no fragment yet.
type Heuristics struct {
	HashRouteMarkers []string // Case-insensitive substrings, e.g. "juice".
	HashRoutePorts   []int    // Matched as a literal ":<port>".
}

// DefaultHeuristics recognises OWASP Juice Shop by name or by its default port.
var DefaultHeuristics = Heuristics{
	HashRouteMarkers: []string{"juice"},
	HashRoutePorts:   []int{3000},
}

// Resolver derives dashboard links from operator input.
type Resolver struct {
	markers []string
	ports   []string
}

// New returns a *Resolver using the given heuristics.
func New(h Heuristics) *Resolver {
	r := &Resolver{}
	for _, m := range h.HashRouteMarkers {
		if m = strings.TrimSpace(m); m != "" {
			r.markers = append(r.markers, strings.ToLower(m))
		}
	}
	for _, p := range h.HashRoutePorts {
		r.ports = append(r.ports, ":"+strconv.Itoa(p))
	}
	return r
}

var std = New(DefaultHeuristics)

// Normalize turns free-text input into a scheme-qualified URL. Input that
// already carries an http:// or https:// prefix is returned as is.
func Normalize(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return DefaultTarget
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return "http://" + value
}

// ResolveLoginURL guesses the login page using the default heuristics.
func ResolveLoginURL(raw string) string {
	return std.ResolveLoginURL(raw)
}

// ResolveTechStackURL returns the bare target, used to open its home page.
func ResolveTechStackURL(raw string) string {
	return std.ResolveTechStackURL(raw)
}

// Resolve bundles all links using the default heuristics.
func Resolve(raw string) Links {
	return std.Resolve(raw)
}

// ResolveLoginURL guesses the login page of the target. The rules are
// evaluated in order and the first match wins:
//
//  1. the URL already names a login or signin page: unchanged
//  2. the URL has a hash route: the route is replaced by #/login
//  3. the URL matches a hash-routed application: /#/login is appended
//  4. otherwise /login is appended
func (r *Resolver) ResolveLoginURL(raw string) string {
	normalized := Normalize(raw)
	lower := strings.ToLower(normalized)

	if strings.Contains(lower, "login") || strings.Contains(lower, "signin") {
		return normalized
	}

	if strings.Contains(normalized, "#/") {
		return hashFragment.ReplaceAllLiteralString(normalized, "#/login")
	}

	if r.isHashRouted(normalized) {
		return trimSlashes(normalized) + "/#/login"
	}

	return trimSlashes(normalized) + "/login"
}

// ResolveTechStackURL returns the normalized target without trailing slashes.
func (r *Resolver) ResolveTechStackURL(raw string) string {
	return trimSlashes(Normalize(raw))
}

// Links holds the URLs the dashboard derives from a single target.
type Links struct {
	Target    string `json:"target"`
	Login     string `json:"login"`
	TechStack string `json:"tech_stack"`
}

// Resolve computes every link for the given input.
func (r *Resolver) Resolve(raw string) Links {
	return Links{
		Target:    Normalize(raw),
		Login:     r.ResolveLoginURL(raw),
		TechStack: r.ResolveTechStackURL(raw),
	}
}

func (r *Resolver) isHashRouted(normalized string) bool {
	lower := strings.ToLower(normalized)
	for _, m := range r.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	for _, p := range r.ports {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

func trimSlashes(s string) string {
	return strings.TrimRight(s, "/")
}
