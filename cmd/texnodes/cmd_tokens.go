package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/texnodes/latex/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var contextPath string

	cmd := &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a LaTeX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			ctx, err := loadContext(contextPath)
			if err != nil {
				return err
			}

			lexer := parser.NewLexer(data, filename, ctx)
			lines := parser.NewLineIndex(filename, data)
			tokens, err := lexer.Tokens()
			for _, tok := range tokens {
				fmt.Printf("%s\t%s\n", lines.Position(tok.Pos), tok)
			}
			if err != nil {
				return fmt.Errorf("tokenize: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contextPath, "context", "", "tokenizer settings file (.toml or .yaml)")

	return cmd
}
