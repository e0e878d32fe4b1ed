package render

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unsupported output format: %s", s)
	}
}

// Output writes data as JSON or YAML, or writes text() for the text format.
func Output(w io.Writer, format OutputFormat, data any, text func() string) error {
	switch format {
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(data)

	case FormatYAML:
		out, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err

	case FormatText, "":
		if text == nil {
			_, err := fmt.Fprintf(w, "%v\n", data)
			return err
		}
		_, err := fmt.Fprintln(w, text())
		return err

	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}
