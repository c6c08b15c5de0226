package web_scanner

import (
	"context"
	"github.com/sirupsen/logrus"
	"go-reconx/httpclient"
	"go-reconx/models"
)

// WebScanner runs the passive and light active web checks against a target.
type WebScanner struct {
	client *httpclient.Client
}

// New returns a new *WebScanner.
func New(client *httpclient.Client) *WebScanner {
	return &WebScanner{client: client}
}

// Name returns the plugin name.
func (w *WebScanner) Name() string {
	return "Web Scanner"
}

// Run executes the header, CORS and XSS checks on the target. A check that
// cannot reach the target reports nothing.
func (w *WebScanner) Run(ctx context.Context, target *models.TargetInfo) (*models.DTO, error) {
	var result models.DTO

	if v := w.checkHeaders(ctx, target.BaseURL); v != nil {
		result.Vulnerabilities = append(result.Vulnerabilities, *v)
	}

	result.Vulnerabilities = append(result.Vulnerabilities, w.checkCORS(ctx, target.BaseURL)...)
	result.Vulnerabilities = append(result.Vulnerabilities, w.testXSS(ctx, target.FullURL)...)

	logrus.Infof("Web checks on %s found %d issues", target.BaseURL, len(result.Vulnerabilities))
	return &result, nil
}
