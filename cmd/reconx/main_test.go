package main

import (
	"bytes"
	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go-reconx/config"
	"go-reconx/models"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfigPath, "")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestResolveCmd(t *testing.T) {
	out, err := run(t, "resolve", "localhost:3000")
	require.NoError(t, err)

	assert.Contains(t, out, "Target:     http://localhost:3000\n")
	assert.Contains(t, out, "Login:      http://localhost:3000/#/login\n")
	assert.Contains(t, out, "Tech Stack: http://localhost:3000\n")

	out, err = run(t, "resolve")
	require.NoError(t, err)
	assert.Contains(t, out, "Target:     http://127.0.0.1:3000\n")
}

func TestResolveCmd_ConfigHeuristics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reconx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("resolver:\n  hash_route_markers: [\"spa\"]\n  hash_route_ports: [4200]\n"), 0o644))

	out, err := run(t, "--config", path, "resolve", "shop.test:4200")
	require.NoError(t, err)
	assert.Contains(t, out, "Login:      http://shop.test:4200/#/login\n")

	out, err = run(t, "--config", path, "resolve", "localhost:3000")
	require.NoError(t, err)
	assert.Contains(t, out, "Login:      http://localhost:3000/login\n")
}

func TestScanCmd_Args(t *testing.T) {
	_, err := run(t, "scan")
	assert.Error(t, err)

	_, err = run(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "resolve", "a.test")
	assert.Error(t, err)
}

func TestScanOptions_Apply(t *testing.T) {
	cfg := config.Default()
	cfg.Scan.Timeout = 12 * time.Second
	cfg.Scan.Wordlist = "from-config.txt"

	cmd := newScanCmd(&app{cfg: cfg})
	require.NoError(t, cmd.ParseFlags(nil))
	opts := scanOptions{timeout: 5}
	opts.apply(cmd, cfg)

	// Flag defaults leave the config alone.
	assert.Equal(t, 12*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, "from-config.txt", cfg.Scan.Wordlist)

	cmd = newScanCmd(&app{cfg: cfg})
	require.NoError(t, cmd.ParseFlags([]string{"--timeout", "3", "--wordlist", "words.txt"}))
	opts = scanOptions{timeout: 3, wordlist: "words.txt"}
	opts.apply(cmd, cfg)

	assert.Equal(t, 3*time.Second, cfg.Scan.Timeout)
	assert.Equal(t, "words.txt", cfg.Scan.Wordlist)
}

func TestPrintResult(t *testing.T) {
	var out bytes.Buffer
	printResult(&out, &models.ScanResult{
		Target:          "http://a.test",
		Duration:        "1.2s",
		Ports:           []string{"80/tcp", "443/tcp"},
		Subdomains:      []string{},
		Vulnerabilities: []string{"Missing Security Headers: X-Frame-Options"},
	})

	s := out.String()
	assert.Contains(t, s, "[+] Target: http://a.test")
	assert.Contains(t, s, "Open Ports (2)\n  - 80/tcp\n  - 443/tcp\n")
	assert.Contains(t, s, "Discovered Subdomains (0)\n  None found.\n")
	assert.Contains(t, s, "Discovered Paths (0)\n  None found.\n")
	assert.Contains(t, s, "  - Missing Security Headers: X-Frame-Options\n")
}
