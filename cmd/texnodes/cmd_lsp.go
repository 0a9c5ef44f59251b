package main

import (
	"time"

	"github.com/dhamidi/texnodes/latex/codebase"
	"github.com/spf13/cobra"
)

func newLSPCmd() *cobra.Command {
	var contextPath string
	var poll time.Duration

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start the Language Server Protocol server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext(contextPath)
			if err != nil {
				return err
			}
			server := codebase.NewLSPServer("0.1.0", ctx)
			server.SetPollInterval(poll)
			return server.RunStdio()
		},
	}

	cmd.Flags().StringVar(&contextPath, "context", "", "tokenizer settings file (.toml or .yaml)")
	cmd.Flags().DurationVar(&poll, "poll", codebase.DefaultPollInterval, "how often to check the workspace for changes")

	return cmd
}
