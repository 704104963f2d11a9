// Package report renders batch records and device listings for the CLI.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/allbin/go-scpi/internal/batch"
	"github.com/allbin/go-scpi/internal/tui/styles"
)

// TimedOutText replaces an empty response in human-readable output.
const TimedOutText = "response timed out"

// Format selects how records are written.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTable Format = "table"
)

var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the accepted format names.
func Formats() []string {
	return []string{string(FormatText), string(FormatJSON), string(FormatYAML), string(FormatTable)}
}

// ParseFormat accepts a format name case-insensitively. The empty string
// means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatYAML:
		return FormatYAML, nil
	case FormatTable:
		return FormatTable, nil
	default:
		return "", fmt.Errorf("%w: %q (want one of %s)", ErrUnknownFormat, s, strings.Join(Formats(), ", "))
	}
}

// Write renders records to w in the given format.
func Write(w io.Writer, format Format, records []batch.Record) error {
	switch format {
	case FormatText, "":
		return writeText(w, records)
	case FormatJSON:
		return writeJSON(w, records)
	case FormatYAML:
		return writeYAML(w, records)
	case FormatTable:
		return writeTable(w, records)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, records []batch.Record) error {
	for _, rec := range records {
		if _, err := fmt.Fprintln(w, styles.DeviceStyle.Render(rec.Device)); err != nil {
			return err
		}
		for _, res := range rec.Results {
			value := styles.ResponseStyle.Render(res.Response)
			if res.TimedOut {
				value = styles.TimeoutStyle.Render(TimedOutText)
			}
			if _, err := fmt.Fprintf(w, "  %s: %s\n", styles.CommandStyle.Render(res.Key), value); err != nil {
				return err
			}
		}
		if rec.Err != nil {
			if _, err := fmt.Fprintf(w, "  %s\n", styles.ErrorStyle.Render("error: "+rec.Err.Error())); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeJSON(w io.Writer, records []batch.Record) error {
	if records == nil {
		records = []batch.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func writeYAML(w io.Writer, records []batch.Record) error {
	if records == nil {
		records = []batch.Record{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(records); err != nil {
		return err
	}
	return enc.Close()
}
