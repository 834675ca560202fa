// Package resource builds the list/get/add/update/delete command tree shared
// by every CRUD resource.
package resource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/cmdutil"
	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/output"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Definition declares the command surface of one resource.
type Definition[T any, Q any] struct {
	Use      string
	Aliases  []string
	Spec     api.Spec
	Columns  []string // JSON fields shown by list in table mode
	Resource func(*ruoyi.Client) *api.Resource[T, Q]
	Exporter func(*ruoyi.Client) *api.Exporter[T, Q] // Adds "export" when set
}

// NewCommand creates the resource command with its CRUD subcommands.
func NewCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	cmd := &cobra.Command{
		Use:     def.Use,
		Aliases: def.Aliases,
		GroupID: groupFor(def.Spec),
		Short:   fmt.Sprintf("Manage %ss (%s)", def.Spec.Title, def.Spec.Base),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.AddCommand(newListCommand(app, def))
	cmd.AddCommand(newGetCommand(app, def))
	cmd.AddCommand(newAddCommand(app, def))
	cmd.AddCommand(newUpdateCommand(app, def))
	cmd.AddCommand(newDeleteCommand(app, def))
	if def.Exporter != nil {
		cmd.AddCommand(newExportCommand(app, def))
	}

	return cmd
}

func newListCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	var flags *cmdutil.QueryFlags
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss", def.Spec.Title),
		Args:  cobra.NoArgs,
		Example: fmt.Sprintf(`  ruoyi %[1]s list
  ruoyi %[1]s list --page 2 --page-size 50
  ruoyi %[1]s list -f status=0 -o json`, def.Use),
		RunE: func(cmd *cobra.Command, _ []string) error {
			var query Q
			if err := flags.Decode(&query); err != nil {
				return err
			}

			res, err := resourceFor(app, def)
			if err != nil {
				return err
			}

			page, err := res.List(cmd.Context(), &query)
			if err != nil {
				return err
			}

			app.Logger().Debug().
				Str("resource", def.Spec.Name).
				Int64("total", page.Total).
				Int("rows", len(page.Rows)).
				Msg("listed")

			return output.Page(cmd.OutOrStdout(), format(app), def.Columns, page)
		},
	}
	flags = cmdutil.AddQueryFlags(cmd, true)
	return cmd
}

func newGetCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	return &cobra.Command{
		Use:   "get <" + def.Spec.IDField + ">",
		Short: fmt.Sprintf("Show one %s", def.Spec.Title),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resourceFor(app, def)
			if err != nil {
				return err
			}

			record, err := res.Get(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			return output.Value(cmd.OutOrStdout(), format(app), nil, record)
		},
	}
}

func newAddCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	var flags *cmdutil.InputFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: fmt.Sprintf("Create a %s from a JSON or YAML document", def.Spec.Title),
		Args:  cobra.NoArgs,
		Example: fmt.Sprintf(`  ruoyi %[1]s add -F %[1]s.yaml
  echo '{...}' | ruoyi %[1]s add`, def.Use),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd, app, def, flags, func(ctx context.Context, res *api.Resource[T, Q], record *T) (*api.Result, error) {
				return res.Add(ctx, record)
			})
		},
	}
	flags = cmdutil.AddInputFlags(cmd)
	return cmd
}

func newUpdateCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	var flags *cmdutil.InputFlags
	cmd := &cobra.Command{
		Use:   "update",
		Short: fmt.Sprintf("Update a %s; the document must carry %s", def.Spec.Title, def.Spec.IDField),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return write(cmd, app, def, flags, func(ctx context.Context, res *api.Resource[T, Q], record *T) (*api.Result, error) {
				return res.Update(ctx, record)
			})
		},
	}
	flags = cmdutil.AddInputFlags(cmd)
	return cmd
}

func newDeleteCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <" + def.Spec.IDField + ">...",
		Aliases: []string{"rm"},
		Short:   fmt.Sprintf("Delete one or more %ss", def.Spec.Title),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := resourceFor(app, def)
			if err != nil {
				return err
			}

			ids := lo.Map(args, func(s string, _ int) api.ID { return api.ID(s) })
			result, err := res.Delete(cmd.Context(), ids...)
			if err != nil {
				return err
			}
			return PrintResult(cmd, app, result)
		},
	}
}

func newExportCommand[T any, Q any](app application.Application, def Definition[T, Q]) *cobra.Command {
	var (
		flags *cmdutil.QueryFlags
		out   string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: fmt.Sprintf("Export %ss as an xlsx workbook", def.Spec.Title),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var query Q
			if err := flags.Decode(&query); err != nil {
				return err
			}

			client, err := app.Client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DownloadTimeout)
			defer cancel()

			file, err := def.Exporter(client).Export(ctx, &query)
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = DefaultFileName(file, def.Use+".xlsx")
			}
			return SaveFile(cmd, app, dest, file)
		},
	}
	flags = cmdutil.AddQueryFlags(cmd, false)
	cmd.Flags().StringVar(&out, "out", "", "Destination file (default: server-provided name)")
	return cmd
}

// write decodes a document, runs fn and prints the server message.
func write[T any, Q any](
	cmd *cobra.Command,
	app application.Application,
	def Definition[T, Q],
	flags *cmdutil.InputFlags,
	fn func(context.Context, *api.Resource[T, Q], *T) (*api.Result, error),
) error {
	record := new(T)
	if err := flags.ReadDocument(cmd.InOrStdin(), record); err != nil {
		return err
	}

	res, err := resourceFor(app, def)
	if err != nil {
		return err
	}

	result, err := fn(cmd.Context(), res, record)
	if err != nil {
		return err
	}
	return PrintResult(cmd, app, result)
}

func resourceFor[T any, Q any](app application.Application, def Definition[T, Q]) (*api.Resource[T, Q], error) {
	client, err := app.Client()
	if err != nil {
		return nil, err
	}
	return def.Resource(client), nil
}

// PrintResult prints the server message, or the result document for
// machine-readable formats.
func PrintResult(cmd *cobra.Command, app application.Application, result *api.Result) error {
	f := format(app)
	if f.IsTable() {
		msg := lo.CoalesceOrEmpty(result.Message, "ok")
		_, err := fmt.Fprintln(cmd.OutOrStdout(), msg)
		return err
	}
	return output.Value(cmd.OutOrStdout(), f, nil, result)
}

// DefaultFileName is the server-provided file name without directories, or
// fallback when the server sent none.
func DefaultFileName(file *api.File, fallback string) string {
	if file.Name == "" {
		return fallback
	}
	return filepath.Base(file.Name)
}

// SaveFile writes a downloaded file to path and reports where it went.
func SaveFile(cmd *cobra.Command, app application.Application, path string, file *api.File) error {
	if path == "-" {
		_, err := cmd.OutOrStdout().Write(file.Data)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
			return errors.WrapIO("create", dir, err)
		}
	}
	if err := os.WriteFile(path, file.Data, constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}

	app.Logger().Info().
		Str("path", path).
		Int("bytes", len(file.Data)).
		Str("content_type", file.ContentType).
		Msg("saved")
	_, err := fmt.Fprintln(cmd.OutOrStdout(), path)
	return err
}

func format(app application.Application) output.Format {
	return output.DetectFormat(app.OutputFormat())
}

// groupFor places notify.* resources under the notify help group.
func groupFor(spec api.Spec) string {
	if strings.HasPrefix(spec.Name, "notify.") {
		return "notify"
	}
	return "system"
}
