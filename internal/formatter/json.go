package formatter

import (
	"io"

	"github.com/tordrt/martschema/internal/schema"
)

// JSONFormatter writes only the detailed schema
type JSONFormatter struct {
	writer io.Writer
}

// NewJSONFormatter creates a new JSON formatter
func NewJSONFormatter(w io.Writer) *JSONFormatter {
	return &JSONFormatter{writer: w}
}

// Format writes the detailed schema followed by a newline
func (f *JSONFormatter) Format(d *schema.Description) error {
	data, err := MarshalDetailed(d)
	if err != nil {
		return err
	}
	if _, err := f.writer.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}
