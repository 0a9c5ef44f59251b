package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dhamidi/texnodes/latex/parser"
	"github.com/spf13/cobra"
)

func newAtCmd() *cobra.Command {
	var contextPath string
	var line, column int

	cmd := &cobra.Command{
		Use:   "at <file> [offset]",
		Short: "Show the nodes covering a byte offset or a line and column",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := args[0]
			data, err := os.ReadFile(filename)
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			lines := parser.NewLineIndex(filename, data)
			var offset int
			switch {
			case len(args) == 2:
				offset, err = strconv.Atoi(args[1])
				if err != nil {
					return fmt.Errorf("invalid offset %q: %w", args[1], err)
				}
			case line > 0:
				offset = lines.Offset(line, column)
			default:
				return fmt.Errorf("need an offset or --line")
			}

			ctx, err := loadContext(contextPath)
			if err != nil {
				return err
			}

			list, err := parser.Parse(data, parser.WithFile(filename), parser.WithContext(ctx), parser.WithTolerant())
			if err != nil {
				return fmt.Errorf("parse: %w", err)
			}

			path := list.PathAt(offset)
			if len(path) == 0 {
				return fmt.Errorf("no node at %s", lines.Position(offset))
			}
			for depth, n := range path {
				fmt.Printf("%*s%s [%s]\n", depth*2, "", n.Kind, lines.Position(n.Pos))
			}
			fmt.Printf("%q\n", path[len(path)-1].Verbatim())
			return nil
		},
	}

	cmd.Flags().StringVar(&contextPath, "context", "", "tokenizer settings file (.toml or .yaml)")
	cmd.Flags().IntVarP(&line, "line", "l", 0, "1-based line")
	cmd.Flags().IntVarP(&column, "column", "c", 1, "1-based column in bytes")

	return cmd
}
