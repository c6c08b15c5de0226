package main

import (
	"fmt"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go-reconx/resolver"
)

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [target]",
		Short: "Print the normalized target, its login page and its home page",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			}

			links := resolver.New(a.cfg.Resolver.Heuristics()).Resolve(raw)

			w := cmd.OutOrStdout()
			label := color.New(color.FgCyan, color.Bold)
			label.Fprint(w, "Target:     ")
			fmt.Fprintln(w, links.Target)
			label.Fprint(w, "Login:      ")
			fmt.Fprintln(w, links.Login)
			label.Fprint(w, "Tech Stack: ")
			fmt.Fprintln(w, links.TechStack)
			return nil
		},
	}
}
