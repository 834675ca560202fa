// Package send provides the command that pushes notifications through an API key.
package send

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/output"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// Delivery styles of the public send endpoint.
const (
	ViaPost  = "post"
	ViaQuery = "query"
	ViaPath  = "path"
)

// Flags holds the send options.
type Flags struct {
	Title   string
	MsgType string
	Channel int64
	Via     string
}

// NewCommand creates the send command.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}
	cmd := &cobra.Command{
		Use:     "send <apiKey> <content>",
		GroupID: "notify",
		Short:   "Push a notification through an API key",
		Long: `Send delivers a message to every channel bound to the API key, or to one
channel with --channel. The public send endpoint needs no login token.`,
		Args: cobra.ExactArgs(2),
		Example: `  ruoyi send sk-xxx "deploy finished"
  ruoyi send sk-xxx "# Release" --title v1.2 --type markdown
  ruoyi send sk-xxx "disk full" --via path`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, app, flags, args[0], args[1])
		},
	}

	cmd.Flags().StringVarP(&flags.Title, "title", "t", "", "Message title")
	cmd.Flags().StringVar(&flags.MsgType, "type", api.MsgTypeText, "Message type: text or markdown")
	cmd.Flags().Int64Var(&flags.Channel, "channel", 0, "Deliver to this channel only")
	cmd.Flags().StringVar(&flags.Via, "via", ViaPost, "Request style: post (JSON body), query (GET parameters) or path (content in the URL)")

	return cmd
}

func run(cmd *cobra.Command, app application.Application, flags *Flags, apiKey, content string) error {
	if apiKey == "" {
		return errors.NewValidationError("apiKey", apiKey, "must not be empty")
	}
	if flags.MsgType != api.MsgTypeText && flags.MsgType != api.MsgTypeMarkdown {
		return errors.NewValidationError("type", flags.MsgType, "must be text or markdown")
	}

	client, err := app.Client()
	if err != nil {
		return err
	}

	req := &api.SendRequest{
		Title:     flags.Title,
		Content:   content,
		MsgType:   flags.MsgType,
		ChannelID: flags.Channel,
	}

	var result *api.SendResult
	switch flags.Via {
	case ViaPost:
		result, err = client.Send.Send(cmd.Context(), apiKey, req)
	case ViaQuery:
		result, err = client.Send.SendQuery(cmd.Context(), apiKey, req)
	case ViaPath:
		if flags.Title != "" || flags.Channel != 0 {
			return errors.NewValidationError("via", flags.Via, "path delivery takes no title or channel")
		}
		result, err = client.Send.SendText(cmd.Context(), apiKey, content)
	default:
		return errors.NewValidationError("via", flags.Via, "must be post, query or path")
	}
	if result == nil {
		return err
	}

	app.Logger().Debug().
		Int("total", result.Total).
		Int("success", result.SuccessCount).
		Int("failed", result.FailCount).
		Msg("sent")

	if perr := printResult(cmd, app, result); perr != nil {
		return perr
	}
	switch {
	case err != nil:
		return fmt.Errorf("delivery failed on %d of %d channels: %w", result.FailCount, result.Total, err)
	case !result.Success:
		return fmt.Errorf("delivery failed on %d of %d channels", result.FailCount, result.Total)
	}
	return nil
}

func printResult(cmd *cobra.Command, app application.Application, result *api.SendResult) error {
	format := output.DetectFormat(app.OutputFormat())
	if !format.IsTable() {
		return output.Value(cmd.OutOrStdout(), format, nil, result)
	}

	data := output.Data{
		Headers: []string{"Channel", "Name", "Platform", "Result", "Cost"},
		Footer:  fmt.Sprintf("%d of %d delivered", result.SuccessCount, result.Total),
	}
	for _, r := range result.Results {
		status := "ok"
		if !r.Success {
			status = r.Error
		}
		data.Rows = append(data.Rows, []string{
			fmt.Sprint(r.ChannelID), r.ChannelName, r.Platform, status, fmt.Sprintf("%dms", r.CostTime),
		})
	}
	return output.NewFormatter(format).Format(cmd.OutOrStdout(), data)
}
