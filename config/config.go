// Package config loads tokenizer settings from TOML or YAML files.
//
// A file only needs to name what differs from parser.DefaultContext:
//
//	escape_char = "\\"
//	comment_start = "%"
//	specials = ["~", "&"]
//	environments = true
//
//	[[groups]]
//	open = "{"
//	close = "}"
//
//	[[math]]
//	open = "$"
//	close = "$"
//	display = false
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/dhamidi/texnodes/latex/parser"
)

type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	}
	return "unknown"
}

var ErrUnknownFormat = errors.New("unknown configuration format")

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

type Group struct {
	Open  string `toml:"open" yaml:"open"`
	Close string `toml:"close" yaml:"close"`
}

type Math struct {
	Open    string `toml:"open" yaml:"open"`
	Close   string `toml:"close" yaml:"close"`
	Display bool   `toml:"display" yaml:"display"`
}

// File is the on-disk shape of a tokenizer configuration. Unset fields keep
// their default.
type File struct {
	EscapeChar   string   `toml:"escape_char" yaml:"escape_char"`
	CommentStart string   `toml:"comment_start" yaml:"comment_start"`
	Groups       []Group  `toml:"groups" yaml:"groups"`
	Math         []Math   `toml:"math" yaml:"math"`
	NoMath       bool     `toml:"no_math" yaml:"no_math"`
	Specials     []string `toml:"specials" yaml:"specials"`
	NoSpecials   bool     `toml:"no_specials" yaml:"no_specials"`
	Environments *bool    `toml:"environments" yaml:"environments"`
	Comments     *bool    `toml:"comments" yaml:"comments"`
}

func Load(path string) (*parser.Context, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	ctx, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ctx, nil
}

func Parse(data []byte, format Format) (*parser.Context, error) {
	var f File
	switch format {
	case FormatTOML:
		if _, err := toml.Decode(string(data), &f); err != nil {
			return nil, fmt.Errorf("parse toml: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	return f.Context()
}

// Context applies f on top of parser.DefaultContext.
func (f *File) Context() (*parser.Context, error) {
	ctx := parser.DefaultContext()

	if f.EscapeChar != "" {
		ctx.EscapeChar = f.EscapeChar
	}
	if f.CommentStart != "" {
		ctx.CommentStart = f.CommentStart
	}

	if len(f.Groups) > 0 {
		ctx.Groups = nil
		for i, g := range f.Groups {
			if g.Open == "" || g.Close == "" {
				return nil, fmt.Errorf("groups[%d]: open and close are required", i)
			}
			ctx.Groups = append(ctx.Groups, parser.Delimiters{Open: g.Open, Close: g.Close})
		}
	}

	switch {
	case f.NoMath:
		ctx.Math = nil
	case len(f.Math) > 0:
		ctx.Math = nil
		for i, m := range f.Math {
			if m.Open == "" || m.Close == "" {
				return nil, fmt.Errorf("math[%d]: open and close are required", i)
			}
			ctx.Math = append(ctx.Math, parser.MathDelimiters{Open: m.Open, Close: m.Close, Display: m.Display})
		}
	}

	switch {
	case f.NoSpecials:
		ctx.Specials = nil
	case len(f.Specials) > 0:
		ctx.Specials = f.Specials
	}

	if f.Environments != nil {
		ctx.Environments = *f.Environments
	}
	if f.Comments != nil {
		ctx.Comments = *f.Comments
	}
	return ctx, nil
}
