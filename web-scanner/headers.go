package web_scanner

import (
	"context"
	"github.com/sirupsen/logrus"
	"go-reconx/models"
	"strings"
)

// checkHeaders reports the security headers missing from the page.
func (w *WebScanner) checkHeaders(ctx context.Context, pageURL string) *models.VulnerabilityDTO {
	resp, err := w.client.Get(ctx, pageURL, nil)
	if err != nil {
		logrus.Debugf("Header check on %s failed: %v", pageURL, err)
		return nil
	}

	var missing []string
	for _, h := range securityHeaders {
		// http.Header keys are canonical, Get is case-insensitive.
		if resp.Header.Get(h) == "" {
			missing = append(missing, h)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	return &models.VulnerabilityDTO{
		PluginName:  w.Name(),
		Title:       "Missing Security Headers",
		Severity:    severityLow,
		Description: "Missing Security Headers: " + strings.Join(missing, ", "),
		Evidence:    pageURL,
	}
}
