package main

import (
	"context"
	"fmt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go-reconx/config"
	"go-reconx/models"
	"go-reconx/plugin"
	"go-reconx/report"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

type scanOptions struct {
	wordlist string
	report   string
	timeout  int
}

func newScanCmd(a *app) *cobra.Command {
	opts := scanOptions{}

	cmd := &cobra.Command{
		Use:   "scan <target>",
		Short: "Scan a target and write a PDF report",
		Example: `  reconx scan example.com
  reconx scan http://127.0.0.1:3000 --wordlist words.txt --report out/juice.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.apply(cmd, a.cfg)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			pm := plugin.NewManager(nil, a.cfg)
			result, err := pm.Scan(ctx, args[0])
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			printResult(w, result)

			if opts.report == "" {
				return nil
			}
			return writeReport(ctx, a, opts.report, result, w)
		},
	}

	cmd.Flags().StringVarP(&opts.wordlist, "wordlist", "w", "", "Wordlist for path discovery (default: built-in list)")
	cmd.Flags().StringVarP(&opts.report, "report", "r", "reconx_report.pdf", "PDF report path, empty to skip")
	cmd.Flags().IntVarP(&opts.timeout, "timeout", "t", 5, "HTTP timeout in seconds, overrides the config")
	return cmd
}

// apply overrides the config with the flags set on the command line.
func (o scanOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("wordlist") {
		cfg.Scan.Wordlist = o.wordlist
	}
	if cmd.Flags().Changed("timeout") && o.timeout > 0 {
		cfg.Scan.Timeout = time.Duration(o.timeout) * time.Second
	}
}

func writeReport(ctx context.Context, a *app, path string, result *models.ScanResult, w io.Writer) error {
	gen := report.NewGenerator(filepath.Dir(path), &report.ChromeRenderer{
		ExecPath: a.cfg.Report.ChromePath,
		Timeout:  a.cfg.Report.Timeout,
	})

	name, err := gen.GenerateAs(ctx, filepath.Base(path), report.FromResult(result))
	if err != nil {
		return fmt.Errorf("report: %w", err)
	}

	color.New(color.FgGreen).Fprintf(w, "\n[+] Report saved to %s\n", filepath.Join(gen.Dir, name))
	return nil
}

// printResult writes the scan result as coloured sections.
func printResult(w io.Writer, r *models.ScanResult) {
	title := color.New(color.FgCyan, color.Bold)
	muted := color.New(color.FgHiBlack)

	title.Fprintf(w, "\n[+] Target: %s\n", r.Target)
	muted.Fprintf(w, "    Duration: %s\n", r.Duration)

	sections := []struct {
		name  string
		items []string
		c     *color.Color
	}{
		{"Open Ports", r.Ports, color.New(color.FgRed)},
		{"Discovered Subdomains", r.Subdomains, color.New(color.FgBlue)},
		{"Discovered Paths", r.Paths, color.New(color.FgGreen)},
		{"Vulnerabilities", r.Vulnerabilities, color.New(color.FgYellow)},
	}

	for _, s := range sections {
		title.Fprintf(w, "\n%s (%d)\n", s.name, len(s.items))
		if len(s.items) == 0 {
			muted.Fprintln(w, "  None found.")
			continue
		}
		for _, item := range s.items {
			s.c.Fprintf(w, "  - %s\n", item)
		}
	}
}
