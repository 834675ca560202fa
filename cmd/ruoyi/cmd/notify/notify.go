// Package notify provides the notify channel, key, log and platform commands.
package notify

import (
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/cmd/resource"
	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/output"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
)

// NewChannelsCommand creates the channels command.
func NewChannelsCommand(app application.Application) *cobra.Command {
	cmd := resource.NewCommand(app, resource.Definition[api.NotifyChannel, api.NotifyChannelQuery]{
		Use:     "channels",
		Aliases: []string{"channel"},
		Spec:    api.ChannelSpec,
		Columns: []string{"channelId", "channelName", "platformId", "isDefault", "status", "useCount", "lastUsedTime"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.NotifyChannel, api.NotifyChannelQuery] {
			return c.Channels.Resource
		},
	})
	cmd.AddCommand(newChannelTestCommand(app))
	return cmd
}

func newChannelTestCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "test <channelId>",
		Short: "Send a probe message through a channel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			result, err := client.Channels.Test(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			return resource.PrintResult(cmd, app, result)
		},
	}
}

// NewKeysCommand creates the keys command.
func NewKeysCommand(app application.Application) *cobra.Command {
	cmd := resource.NewCommand(app, resource.Definition[api.NotifyKey, api.NotifyKeyQuery]{
		Use:     "keys",
		Aliases: []string{"key"},
		Spec:    api.KeySpec,
		Columns: []string{"keyId", "keyName", "apiKey", "channelIds", "dailyLimit", "dailyUsed", "status", "expireTime"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.NotifyKey, api.NotifyKeyQuery] {
			return c.Keys.Resource
		},
	})
	cmd.AddCommand(newKeyGenerateCommand(app))
	cmd.AddCommand(newKeyResetCommand(app))
	return cmd
}

func newKeyGenerateCommand(app application.Application) *cobra.Command {
	var (
		key      api.NotifyKey
		channels []int64
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Create a key with a server generated secret",
		Args:  cobra.NoArgs,
		Example: `  ruoyi keys generate --name ci --channels 1,2 --daily-limit 500`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			req := key
			req.ChannelIDs = joinInts(channels)
			result, err := client.Keys.Generate(cmd.Context(), &req)
			if err != nil {
				return err
			}
			return printKey(cmd, app, result)
		},
	}
	cmd.Flags().StringVar(&key.KeyName, "name", "", "Key name")
	cmd.Flags().Int64SliceVar(&channels, "channels", nil, "Channel ids the key delivers to")
	cmd.Flags().Int64Var(&key.DailyLimit, "daily-limit", 0, "Sends allowed per day, 0 for the server default")
	cmd.Flags().StringVar(&key.Status, "status", "", "Status: 0 normal, 1 disabled")
	cmd.Flags().StringVar(&key.Remark, "remark", "", "Remark")
	return cmd
}

func newKeyResetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <keyId>",
		Short: "Rotate the secret of a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			result, err := client.Keys.Reset(cmd.Context(), api.ID(args[0]))
			if err != nil {
				return err
			}
			return printKey(cmd, app, result)
		},
	}
}

// printKey prints the bare secret in table mode so it can be captured by scripts.
func printKey(cmd *cobra.Command, app application.Application, result *api.APIKeyResult) error {
	format := output.DetectFormat(app.OutputFormat())
	if format.IsTable() {
		_, err := cmd.OutOrStdout().Write([]byte(result.APIKey + "\n"))
		return err
	}
	return output.Value(cmd.OutOrStdout(), format, nil, result)
}

func joinInts(ids []int64) string {
	return strings.Join(lo.Map(ids, func(id int64, _ int) string {
		return strconv.FormatInt(id, 10)
	}), ",")
}

// NewLogsCommand creates the logs command.
func NewLogsCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.NotifyLog, api.NotifyLogQuery]{
		Use:     "logs",
		Aliases: []string{"log"},
		Spec:    api.LogSpec,
		Columns: []string{"logId", "keyId", "channelId", "title", "msgType", "status", "costTime", "sendTime"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.NotifyLog, api.NotifyLogQuery] {
			return c.Logs
		},
	})
}

// NewPlatformsCommand creates the platforms command.
func NewPlatformsCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.NotifyPlatform, api.NotifyPlatformQuery]{
		Use:     "platforms",
		Aliases: []string{"platform"},
		Spec:    api.PlatformSpec,
		Columns: []string{"platformId", "platformName", "platformCode", "requestMethod", "status", "orderNum"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.NotifyPlatform, api.NotifyPlatformQuery] {
			return c.Platforms
		},
	})
}
