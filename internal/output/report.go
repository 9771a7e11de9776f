package output

import (
	"fmt"
	"io"
	"strings"
)

// RenderQuote formats a quote with the named formatter.
func RenderQuote(q *Quote, format string) ([]byte, error) {
	f := GetFormatterByName(format)
	if f == nil {
		// enrich error with available formatters and aliases
		return nil, fmt.Errorf("%w: %q. Try one of: %s (aliases: %s)", ErrUnsupportedFormat, format, strings.Join(AvailableFormatterNames(), ", "), strings.Join(AvailableFormatAliases(), ", "))
	}
	return f.Format(q)
}

// WriteQuote renders a quote to w.
func WriteQuote(w io.Writer, q *Quote, format string) error {
	data, err := RenderQuote(q, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// GenerateReport renders a quote into a timestamped file in dir and returns its path.
func GenerateReport(q *Quote, format, dir string) (string, error) {
	f := GetFormatterByName(format)
	if f == nil {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return WriteFormatted(f, q, dir, FileExtension(f))
}
