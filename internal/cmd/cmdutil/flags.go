// Package cmdutil provides shared flags and input helpers for ruoyi commands.
package cmdutil

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// QueryFlags holds paging and filter flags for list and export commands.
type QueryFlags struct {
	PageNum   int
	PageSize  int
	BeginTime string
	EndTime   string
	Filter    []string
}

// AddQueryFlags adds list filter flags to a command. Paging flags are
// skipped for commands that do not page, such as exports.
func AddQueryFlags(cmd *cobra.Command, paging bool) *QueryFlags {
	flags := &QueryFlags{}

	if paging {
		cmd.Flags().IntVar(&flags.PageNum, "page", 0,
			"Page number (server default when unset)")
		cmd.Flags().IntVar(&flags.PageSize, "page-size", 0,
			"Rows per page (server default when unset)")
	}
	cmd.Flags().StringVar(&flags.BeginTime, "begin-time", "",
		"Lower bound of the creation time window (2006-01-02)")
	cmd.Flags().StringVar(&flags.EndTime, "end-time", "",
		"Upper bound of the creation time window (2006-01-02)")
	cmd.Flags().StringArrayVarP(&flags.Filter, "filter", "f", nil,
		"Field filter as name=value, repeatable (e.g. status=0)")

	return flags
}

// Values merges the flags into one map keyed by JSON field name.
func (f *QueryFlags) Values() (map[string]any, error) {
	values := make(map[string]any, len(f.Filter)+4)
	for _, expr := range f.Filter {
		name, value, ok := strings.Cut(expr, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, errors.NewValidationError("filter", expr, "must be name=value")
		}
		values[name] = value
	}
	if f.PageNum > 0 {
		values["pageNum"] = f.PageNum
	}
	if f.PageSize > 0 {
		values["pageSize"] = f.PageSize
	}
	if f.BeginTime != "" {
		values["beginTime"] = f.BeginTime
	}
	if f.EndTime != "" {
		values["endTime"] = f.EndTime
	}
	return values, nil
}

// Decode fills a query struct from the flags. Field names are matched
// against JSON tags; unknown names are rejected.
func (f *QueryFlags) Decode(dst any) error {
	values, err := f.Values()
	if err != nil {
		return err
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Squash:           true,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           dst,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(values); err != nil {
		return errors.WrapValidation("filter", err)
	}
	return nil
}

// InputFlags holds the document source for add and update commands.
type InputFlags struct {
	File string
}

// AddInputFlags adds the --file flag to a command.
func AddInputFlags(cmd *cobra.Command) *InputFlags {
	flags := &InputFlags{}
	cmd.Flags().StringVarP(&flags.File, "file", "F", "-",
		"JSON or YAML document to send, - for stdin")
	return flags
}

// ReadDocument decodes a JSON or YAML document from the file flag, or from
// stdin when the flag is "-". YAML is converted to JSON first so the JSON
// tags of the target type apply.
func (f *InputFlags) ReadDocument(stdin io.Reader, dst any) error {
	data, err := f.read(stdin)
	if err != nil {
		return err
	}
	return DecodeDocument(data, dst)
}

func (f *InputFlags) read(stdin io.Reader) ([]byte, error) {
	if f.File == "" || f.File == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, errors.WrapIO("read", "stdin", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(f.File)
	if err != nil {
		return nil, errors.WrapIO("read", f.File, err)
	}
	return data, nil
}

// DecodeDocument decodes JSON or YAML into dst.
func DecodeDocument(data []byte, dst any) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.NewValidationError("file", "", "document is empty")
	}

	if data[0] != '{' && data[0] != '[' {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return errors.WrapValidation("file", err)
		}
		data = converted
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return errors.WrapValidation("file", err)
	}
	return nil
}
