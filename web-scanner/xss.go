package web_scanner

import (
	"context"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"go-reconx/models"
	"net/url"
	"strings"
)

// injectPayload sets the payload on every query parameter, or on "q" when
// the URL has none.
func injectPayload(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	query := u.Query()
	if len(query) == 0 {
		query.Set("q", xssPayload)
	} else {
		for key := range query {
			query[key] = []string{xssPayload}
		}
	}
	u.RawQuery = query.Encode()
	return u.String(), nil
}

// extractFields extracts input field names from the HTML content.
func extractFields(htmlContent string) []string {
	var fields []string
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{})
	doc.Find("form input, form textarea").Each(func(i int, s *goquery.Selection) {
		name, exists := s.Attr("name")
		if !exists || name == "" {
			return
		}
		if t, _ := s.Attr("type"); strings.EqualFold(t, "password") || strings.Contains(strings.ToLower(name), "password") {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		fields = append(fields, name)
	})
	return fields
}

// reflected requests testURL and reports whether the payload comes back.
func (w *WebScanner) reflected(ctx context.Context, testURL string) bool {
	resp, err := w.client.Get(ctx, testURL, nil)
	if err != nil {
		logrus.Debugf("Error fetching %s: %v", testURL, err)
		return false
	}
	return strings.Contains(resp.Body, xssPayload)
}

func (w *WebScanner) xssFinding(testURL, description string) models.VulnerabilityDTO {
	return models.VulnerabilityDTO{
		PluginName:  w.Name(),
		Title:       "Possible XSS",
		Severity:    severityMedium,
		Description: description,
		Evidence:    testURL,
	}
}

// testXSS injects the payload into the URL parameters and into the form
// fields found on the page, and reports every reflection.
func (w *WebScanner) testXSS(ctx context.Context, pageURL string) []models.VulnerabilityDTO {
	var vulns []models.VulnerabilityDTO

	testURL, err := injectPayload(pageURL)
	if err != nil {
		logrus.Debugf("Cannot build XSS test URL for %s: %v", pageURL, err)
		return nil
	}
	if w.reflected(ctx, testURL) {
		vulns = append(vulns, w.xssFinding(testURL, fmt.Sprintf("Potential XSS reflection at %s", testURL)))
	}

	resp, err := w.client.Get(ctx, pageURL, nil)
	if err != nil {
		return vulns
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return vulns
	}
	base.Fragment = ""

	for _, field := range extractFields(resp.Body) {
		u := *base
		q := url.Values{}
		q.Set(field, xssPayload)
		u.RawQuery = q.Encode()
		fieldURL := u.String()

		if fieldURL == testURL {
			continue
		}
		if w.reflected(ctx, fieldURL) {
			vulns = append(vulns, w.xssFinding(fieldURL,
				fmt.Sprintf("Potential XSS reflection at %s (parameter '%s')", fieldURL, field)))
		}
	}

	return vulns
}
