package web_scanner

import (
	"context"
	"github.com/sirupsen/logrus"
	"go-reconx/models"
	"strings"
)

// checkCORS detects common CORS misconfigurations.
func (w *WebScanner) checkCORS(ctx context.Context, pageURL string) []models.VulnerabilityDTO {
	resp, err := w.client.Get(ctx, pageURL, map[string]string{"Origin": evilOrigin})
	if err != nil {
		logrus.Debugf("CORS check on %s failed: %v", pageURL, err)
		return nil
	}

	allowOrigin := resp.Header.Get("Access-Control-Allow-Origin")
	allowCreds := resp.Header.Get("Access-Control-Allow-Credentials")

	var issues []models.VulnerabilityDTO
	add := func(severity, description string) {
		issues = append(issues, models.VulnerabilityDTO{
			PluginName:  w.Name(),
			Title:       "CORS Misconfiguration",
			Severity:    severity,
			Description: description,
			Evidence:    pageURL,
		})
	}

	if allowOrigin == "*" {
		add(severityMedium, "Access-Control-Allow-Origin allows wildcard (*)")
	}
	if allowOrigin == evilOrigin {
		add(severityHigh, "Access-Control-Allow-Origin reflects arbitrary Origin")
	}
	if allowOrigin == "*" && strings.EqualFold(allowCreds, "true") {
		add(severityHigh, "Wildcard ACAO with credentials enabled")
	}

	return issues
}
