package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"colonyfeed/internal/model"
)

// Format selects how a feed is encoded.
type Format string

const (
	FormatJSON  Format = "json"
	FormatJSONL Format = "jsonl"
	FormatYAML  Format = "yaml"
	FormatText  Format = "text"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatJSON, FormatJSONL, FormatYAML, FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported format: %s", name)
	}
}

// WriteFile writes records to path, or to stdout when path is empty or "-".
func WriteFile(path string, format Format, records []model.Record) error {
	if path == "" || path == "-" {
		return Write(os.Stdout, format, records)
	}

	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open output file: %w", err)
	}

	writer := bufio.NewWriter(file)
	if err := Write(writer, format, records); err != nil {
		file.Close()
		return err
	}
	if err := writer.Flush(); err != nil {
		file.Close()
		return fmt.Errorf("flush output: %w", err)
	}
	return file.Close()
}

// Write encodes records to w.
func Write(w io.Writer, format Format, records []model.Record) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if records == nil {
			records = []model.Record{}
		}
		if err := enc.Encode(records); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}
		return nil
	case FormatJSONL:
		return writeJSONL(w, records)
	case FormatYAML:
		wire := make([]interface{}, 0, len(records))
		for _, record := range records {
			wire = append(wire, record.Wire())
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(wire); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	case FormatText:
		return writeText(w, records)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSONL(w io.Writer, records []model.Record) error {
	for _, record := range records {
		line, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("marshal record: %w", err)
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("write newline: %w", err)
		}
	}
	return nil
}

func writeText(w io.Writer, records []model.Record) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, record := range records {
		title, description, err := Describe(record)
		if err != nil {
			return err
		}
		when := "unknown"
		if ts, ok := record.Header().Time(); ok {
			when = ts.Format(time.RFC3339)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", when, record.Kind(), title, description); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	return tw.Flush()
}
