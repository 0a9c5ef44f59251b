package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/texnodes/format"
	"github.com/dhamidi/texnodes/latex/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var contextPath string
	var tolerant bool
	var includePositions bool
	var dropComments bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Parse a LaTeX file and dump its node list",
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

			opts := []parser.Option{parser.WithFile(filename), parser.WithContext(ctx)}
			if tolerant {
				opts = append(opts, parser.WithTolerant())
			}
			list, err := parser.Parse(data, opts...)
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			if dropComments {
				list = list.Filter(func(n *parser.Node) bool {
					return n.Kind != parser.KindComment
				})
			}

			if outputFormat == "tree" {
				if includePositions {
					fmt.Print(list.StringWithPositions())
				} else {
					fmt.Print(list.String())
				}
				return nil
			}

			encoder, err := format.NewEncoder(outputFormat, os.Stdout)
			if err != nil {
				return err
			}
			if err := encoder.Encode(list); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format (tree, json, yaml, line)")
	cmd.Flags().StringVar(&contextPath, "context", "", "tokenizer settings file (.toml or .yaml)")
	cmd.Flags().BoolVar(&tolerant, "tolerant", false, "log and recover from parse errors")
	cmd.Flags().BoolVarP(&includePositions, "positions", "p", false, "include offsets in tree output")
	cmd.Flags().BoolVar(&dropComments, "no-comments", false, "drop top-level comments")

	return cmd
}
