package report

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"github.com/sirupsen/logrus"
	"go-reconx/models"
	"html/template"
	"os"
	"path/filepath"
	"regexp"
	"time"
)

//go:embed report.html.tmpl
var reportTemplate string

var tmpl = template.Must(template.New("report").Parse(reportTemplate))

// validName matches the file names produced by Generate.
var validName = regexp.MustCompile(`^reconx_report[A-Za-z0-9_\-]*\.pdf$`)

// PossibleAttacks lists attack areas that are indicated but never tested.
var PossibleAttacks = []string{
	"SQL Injection (manual/authorized testing only)",
	"OS Command Injection (manual/authorized testing only)",
	"Broken Authentication (requires credential testing)",
	"Brute Force (active attack, not performed)",
	"Advanced XSS payloads (not performed)",
	"CORS Misconfiguration (checked above)",
	"Denial of Service (active attack, not performed)",
	"Man-in-the-Middle (requires network position, not performed)",
	"JWT Token Security (requires token analysis, not performed)",
}

// Renderer turns an HTML document into PDF bytes.
type Renderer interface {
	Render(ctx context.Context, html string) ([]byte, error)
}

// Data defines the content of a report.
type Data struct {
	Target          string
	GeneratedAt     time.Time
	OpenPorts       []string
	Subdomains      []string
	DiscoveredPaths []string
	Vulnerabilities []string
	PossibleAttacks []string
}

// FromResult builds report data from a scan result.
func FromResult(r *models.ScanResult) Data {
	return Data{
		Target:          r.Target,
		OpenPorts:       r.Ports,
		Subdomains:      r.Subdomains,
		DiscoveredPaths: r.Paths,
		Vulnerabilities: r.Vulnerabilities,
		PossibleAttacks: PossibleAttacks,
	}
}

// Section is one titled list of the report.
type Section struct {
	Title string
	Items []string
}

// Sections returns the report sections in display order.
func (d Data) Sections() []Section {
	return []Section{
		{"Open Ports", d.OpenPorts},
		{"Discovered Subdomains", d.Subdomains},
		{"Discovered Paths", d.DiscoveredPaths},
		{"Vulnerabilities", d.Vulnerabilities},
		{"Potential Attack Areas (Not Tested)", d.PossibleAttacks},
	}
}

// HTML renders the report document.
func HTML(d Data) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("render report template: %w", err)
	}
	return buf.String(), nil
}

// Generator writes PDF reports into a directory.
type Generator struct {
	Dir      string
	Renderer Renderer
	Now      func() time.Time
}

// NewGenerator returns a new *Generator.
func NewGenerator(dir string, r Renderer) *Generator {
	return &Generator{Dir: dir, Renderer: r, Now: time.Now}
}

// FileName returns the report name for the given time.
func FileName(t time.Time) string {
	return "reconx_report_" + t.Format("20060102_150405") + ".pdf"
}

// Generate renders the report into a new timestamped file and returns its name.
func (g *Generator) Generate(ctx context.Context, d Data) (string, error) {
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	d.GeneratedAt = now()
	return g.GenerateAs(ctx, FileName(d.GeneratedAt), d)
}

// GenerateAs renders the report into Dir/name.
func (g *Generator) GenerateAs(ctx context.Context, name string, d Data) (string, error) {
	if d.GeneratedAt.IsZero() {
		d.GeneratedAt = time.Now()
	}

	html, err := HTML(d)
	if err != nil {
		return "", err
	}

	pdf, err := g.Renderer.Render(ctx, html)
	if err != nil {
		return "", fmt.Errorf("render pdf: %w", err)
	}

	if err := os.MkdirAll(g.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create report dir: %w", err)
	}
	path := filepath.Join(g.Dir, name)
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	logrus.Infof("Report saved to %s", path)
	return name, nil
}

// Path returns the on-disk location of a generated report. Names that do
// not look like a report are rejected.
func (g *Generator) Path(name string) (string, error) {
	if name != filepath.Base(name) || !validName.MatchString(name) {
		return "", fmt.Errorf("invalid report name %q", name)
	}
	return filepath.Join(g.Dir, name), nil
}

// List returns the report file names in the directory, newest first.
func (g *Generator) List() ([]string, error) {
	entries, err := os.ReadDir(g.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var names []string
	for i := len(entries) - 1; i >= 0; i-- {
		e := entries[i]
		if !e.IsDir() && validName.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}
