package web_scanner

// securityHeaders lists the response headers every page is expected to set.
var securityHeaders = []string{
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-XSS-Protection",
	"Strict-Transport-Security",
}

// evilOrigin is sent as Origin to detect permissive CORS policies.
const evilOrigin = "https://evil.example"

// xssPayload is injected into parameters to test for reflection.
const xssPayload = "<script>alert(1)</script>"

const (
	severityLow    = "Low"
	severityMedium = "Medium"
	severityHigh   = "High"
)
