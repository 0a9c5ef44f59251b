package main

import (
	"fmt"

	"github.com/dhamidi/texnodes/config"
	"github.com/dhamidi/texnodes/latex/parser"
)

// loadContext reads tokenizer settings from path, or returns the defaults
// when path is empty.
func loadContext(path string) (*parser.Context, error) {
	if path == "" {
		return parser.DefaultContext(), nil
	}
	ctx, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load context: %w", err)
	}
	return ctx, nil
}
