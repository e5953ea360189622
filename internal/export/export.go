package export

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Yates-Labs/gitmine/internal/gitlog"
)

// Format represents supported export formats
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user supplied format name, case-insensitively.
// "yml" is accepted as an alias for yaml.
func ParseFormat(format string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(format))); f {
	case FormatJSON, FormatYAML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format: %s (supported: json, yaml)", format)
	}
}

// ExportLog writes the mined log in the given format
func ExportLog(l *gitlog.Log, format string, writer io.Writer) error {
	if l == nil {
		l = &gitlog.Log{Entries: []gitlog.LogEntry{}}
	}
	return encode(l, format, writer)
}

// ExportContributors writes contributor statistics in the given format
func ExportContributors(contributors []gitlog.Contributor, format string, writer io.Writer) error {
	if contributors == nil {
		contributors = []gitlog.Contributor{}
	}
	return encode(contributors, format, writer)
}

func encode(v interface{}, format string, writer io.Writer) error {
	f, err := ParseFormat(format)
	if err != nil {
		return err
	}

	switch f {
	case FormatYAML:
		return exportYAML(v, writer)
	default:
		return exportJSON(v, writer)
	}
}

// exportJSON writes v as indented JSON
func exportJSON(v interface{}, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func exportYAML(v interface{}, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode yaml: %w", err)
	}
	return encoder.Close()
}
