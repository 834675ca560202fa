// Package output provides formatters for command output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
	"unicode"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Format types for output.
type Format string

const (
	// FormatTable represents table output format.
	FormatTable Format = "table"
	// FormatJSON represents JSON output format.
	FormatJSON Format = "json"
	// FormatYAML represents YAML output format.
	FormatYAML Format = "yaml"
	// FormatWide represents wide table output format.
	FormatWide Format = "wide"
)

// IsTable reports whether f renders as a table.
func (f Format) IsTable() bool {
	return f == FormatTable || f == FormatWide || f == ""
}

// Formatter interface for all output types.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// FormatterFunc allows functions to implement Formatter.
type FormatterFunc func(io.Writer, any) error

// Format implements the Formatter interface.
func (f FormatterFunc) Format(w io.Writer, data any) error {
	return f(w, data)
}

// NewFormatter creates appropriate formatter based on format. Columns limits
// the table view to the named JSON fields unless the format is wide.
func NewFormatter(format Format, columns ...string) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatWide:
		return &TableFormatter{Wide: true}
	default:
		return &TableFormatter{Columns: columns}
	}
}

// JSONFormatter outputs JSON format.
type JSONFormatter struct {
	Indent string
}

// Format implements the Formatter interface for JSON output.
func (f *JSONFormatter) Format(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	if f.Indent != "" {
		encoder.SetIndent("", f.Indent)
	}
	return encoder.Encode(data)
}

// YAMLFormatter outputs YAML format.
type YAMLFormatter struct{}

// Format outputs data in YAML format.
func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	yamlData, err := yaml.MarshalWithOptions(data,
		yaml.Indent(2),
		yaml.IndentSequence(false),
	)
	if err != nil {
		return err
	}
	_, err = w.Write(yamlData)
	return err
}

// TableFormatter outputs table format.
type TableFormatter struct {
	Wide    bool
	Columns []string // JSON field names to show; all fields when empty
}

// Format outputs data in table format.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return f.formatTable(w, v)
	case *Data:
		return f.formatTable(w, *v)
	default:
		if tableData := f.convertToTableData(data); tableData != nil {
			return f.formatTable(w, *tableData)
		}

		// Fall back to JSON for non-table data
		jsonFormatter := &JSONFormatter{Indent: "  "}
		return jsonFormatter.Format(w, data)
	}
}

func (f *TableFormatter) formatTable(w io.Writer, data Data) error {
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{Global: tw.AlignLeft}
	config.Row.Alignment = tw.CellAlignment{Global: tw.AlignLeft}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	if len(data.Headers) > 0 {
		headers := make([]any, len(data.Headers))
		for i, h := range data.Headers {
			headers[i] = h
		}
		table.Header(headers...)
	}

	for _, row := range data.Rows {
		rowData := make([]any, len(row))
		for i, cell := range row {
			rowData[i] = cell
		}
		if err := table.Append(rowData...); err != nil {
			return err
		}
	}

	if data.Footer != "" {
		if err := table.Render(); err != nil {
			return err
		}
		_, err := fmt.Fprintln(w, data.Footer)
		return err
	}
	return table.Render()
}

// Data represents data formatted for table output.
type Data struct {
	Headers []string
	Rows    [][]string
	Footer  string // Printed below the table, e.g. a page summary
}

// DetectFormat auto-detects format based on terminal and environment.
func DetectFormat(explicitFormat string) Format {
	if explicitFormat != "" {
		return Format(strings.ToLower(explicitFormat))
	}

	if isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		return FormatTable
	}

	// Default to JSON for pipes/redirects
	return FormatJSON
}

// ParseFormat converts string to Format with validation.
func ParseFormat(s string) (Format, error) {
	format := Format(strings.ToLower(strings.TrimSpace(s)))
	switch format {
	case FormatTable, FormatJSON, FormatYAML, FormatWide, "":
		return format, nil
	default:
		return "", errors.NewValidationError("format", s, "must be one of: table, json, yaml, wide")
	}
}

// field is one flattened struct field.
type field struct {
	name  string // JSON name
	index []int
}

// convertToTableData converts struct slices or single structs to Data.
func (f *TableFormatter) convertToTableData(data any) *Data {
	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice:
		elemType := v.Type().Elem()
		for elemType.Kind() == reflect.Pointer {
			elemType = elemType.Elem()
		}
		if elemType.Kind() != reflect.Struct {
			return nil
		}
		return f.structSliceToTableData(v, f.fields(elemType))
	case reflect.Struct:
		return f.singleStructToTableData(v, f.fields(v.Type()))
	}

	return nil
}

// structSliceToTableData converts a slice of structs to Data.
func (f *TableFormatter) structSliceToTableData(v reflect.Value, fields []field) *Data {
	headers := make([]string, len(fields))
	for i, fd := range fields {
		headers[i] = Humanize(fd.name)
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := reflect.Indirect(v.Index(i))
		row := make([]string, len(fields))
		for j, fd := range fields {
			row[j] = cell(elem, fd.index)
		}
		rows = append(rows, row)
	}

	return &Data{Headers: headers, Rows: rows}
}

// singleStructToTableData converts a single struct to a key-value table.
func (f *TableFormatter) singleStructToTableData(v reflect.Value, fields []field) *Data {
	rows := make([][]string, 0, len(fields))
	for _, fd := range fields {
		value := cell(v, fd.index)
		if value == "" && !f.Wide {
			continue
		}
		rows = append(rows, []string{Humanize(fd.name), value})
	}

	return &Data{
		Headers: []string{"Property", "Value"},
		Rows:    rows,
	}
}

// fields flattens t, including embedded structs, and applies the column filter.
func (f *TableFormatter) fields(t reflect.Type) []field {
	all := flatten(t, nil)
	if f.Wide || len(f.Columns) == 0 {
		return all
	}

	byName := make(map[string]field, len(all))
	for _, fd := range all {
		byName[fd.name] = fd
	}
	selected := make([]field, 0, len(f.Columns))
	for _, name := range f.Columns {
		if fd, ok := byName[name]; ok {
			selected = append(selected, fd)
		}
	}
	return selected
}

func flatten(t reflect.Type, prefix []int) []field {
	var out []field
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		index := append(append([]int{}, prefix...), i)

		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			out = append(out, flatten(sf.Type, index)...)
			continue
		}
		if !sf.IsExported() {
			continue
		}

		name := sf.Name
		if tag := sf.Tag.Get("json"); tag != "" {
			if tag == "-" {
				continue
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			if tag != "" {
				name = tag
			}
		}
		out = append(out, field{name: name, index: index})
	}
	return out
}

// cell renders one field. Nil pointers and empty slices render empty.
func cell(v reflect.Value, index []int) string {
	fv := v.FieldByIndex(index)
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if fv.IsNil() {
			return ""
		}
	case reflect.Slice, reflect.Map:
		if fv.Len() == 0 {
			return ""
		}
		if fv.Type().Elem().Kind() == reflect.Uint8 {
			return fmt.Sprintf("<%d bytes>", fv.Len())
		}
	}
	if s, ok := fv.Interface().(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%v", reflect.Indirect(fv).Interface())
}

// Humanize turns a camelCase or snake_case field name into a column title,
// e.g. "channelName" → "Channel Name".
func Humanize(name string) string {
	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		switch {
		case r == '_':
			b.WriteRune(' ')
			continue
		case i > 0 && unicode.IsUpper(r) && !unicode.IsUpper(runes[i-1]) && runes[i-1] != '_':
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	caser := cases.Title(language.English, cases.NoLower)
	return caser.String(b.String())
}
