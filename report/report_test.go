package report

import (
	"context"
	"errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-reconx/models"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeRenderer struct {
	html string
	err  error
}

func (f *fakeRenderer) Render(_ context.Context, html string) ([]byte, error) {
	f.html = html
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-1.4 fake"), nil
}

func TestFileName(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 5, 1, 0, time.UTC)
	assert.Equal(t, "reconx_report_20260307_090501.pdf", FileName(ts))
}

func TestHTML(t *testing.T) {
	d := FromResult(&models.ScanResult{
		Target:          "http://a.test/<b>",
		Ports:           []string{"80/tcp", "443/tcp"},
		Vulnerabilities: []string{"Potential XSS reflection at http://a.test/?q=<script>"},
	})
	d.GeneratedAt = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	html, err := HTML(d)
	require.NoError(t, err)

	assert.Contains(t, html, "ReconX Report")
	assert.Contains(t, html, "Open Ports: 2 | Vulnerabilities: 1 | Paths: 0 | Subdomains: 0")
	assert.Contains(t, html, "80/tcp")
	assert.Contains(t, html, "Potential Attack Areas (Not Tested)")
	assert.Contains(t, html, "JWT Token Security")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")

	// Subdomains and paths are empty.
	assert.Equal(t, 2, strings.Count(html, "None found."))
}

func TestData_Sections(t *testing.T) {
	d := FromResult(&models.ScanResult{Paths: []string{"http://a.test/admin/"}})

	sections := d.Sections()
	require.Len(t, sections, 5)
	assert.Equal(t, Section{Title: "Discovered Paths", Items: []string{"http://a.test/admin/"}}, sections[2])
	assert.Equal(t, "Potential Attack Areas (Not Tested)", sections[4].Title)
	assert.Equal(t, PossibleAttacks, sections[4].Items)
}

func TestGenerator_Generate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	r := &fakeRenderer{}
	g := NewGenerator(dir, r)
	g.Now = func() time.Time { return time.Date(2026, 5, 4, 3, 2, 1, 0, time.UTC) }

	name, err := g.Generate(context.Background(), Data{Target: "http://a.test"})
	require.NoError(t, err)
	assert.Equal(t, "reconx_report_20260504_030201.pdf", name)
	assert.Contains(t, r.html, "http://a.test")

	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(b))

	names, err := g.List()
	require.NoError(t, err)
	assert.Equal(t, []string{name}, names)
}

func TestGenerator_RenderError(t *testing.T) {
	dir := t.TempDir()
	g := NewGenerator(dir, &fakeRenderer{err: errors.New("no chrome")})

	_, err := g.Generate(context.Background(), Data{Target: "x"})
	assert.ErrorContains(t, err, "no chrome")

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestGenerator_Path(t *testing.T) {
	g := NewGenerator("/srv/reports", &fakeRenderer{})

	p, err := g.Path("reconx_report_20260101_000000.pdf")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/reports", "reconx_report_20260101_000000.pdf"), p)

	for _, name := range []string{"../etc/passwd", "reconx_report_x/../../a.pdf", "notes.txt", ""} {
		_, err := g.Path(name)
		assert.Error(t, err, name)
	}
}

func TestGenerator_ListMissingDir(t *testing.T) {
	g := NewGenerator(filepath.Join(t.TempDir(), "nope"), &fakeRenderer{})
	names, err := g.List()
	assert.NoError(t, err)
	assert.Empty(t, names)
}
