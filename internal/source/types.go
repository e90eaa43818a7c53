// Package source decodes forecast assumptions and actual-result files.
package source

import (
	"path/filepath"
	"strings"
)

// Format identifies how an input file is encoded.
type Format string

const (
	FormatTOML  Format = "toml"
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatHJSON Format = "hjson"
	FormatJSONL Format = "jsonl"
	FormatCSV   Format = "csv"
)

// Kind is what an input file holds.
type Kind string

const (
	KindAssumptions Kind = "assumptions"
	KindActuals     Kind = "actuals"
)

// DiscoveredFile is an input file found while scanning a directory.
type DiscoveredFile struct {
	Path   string
	Name   string // file name without extension
	Format Format
	Kind   Kind
}

// FormatOf returns the format implied by a file extension, or "" if unknown.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	case ".hjson":
		return FormatHJSON
	case ".jsonl", ".ndjson":
		return FormatJSONL
	case ".csv":
		return FormatCSV
	default:
		return ""
	}
}
