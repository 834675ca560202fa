package app

import (
	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/cmd/notify"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/cmd/send"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/cmd/system"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Notify commands
	rootCmd.AddCommand(notify.NewChannelsCommand(a))
	rootCmd.AddCommand(notify.NewKeysCommand(a))
	rootCmd.AddCommand(notify.NewLogsCommand(a))
	rootCmd.AddCommand(notify.NewPlatformsCommand(a))
	rootCmd.AddCommand(send.NewCommand(a))

	// System commands
	rootCmd.AddCommand(system.NewAudioCommand(a))
	rootCmd.AddCommand(system.NewBooksCommand(a))
	rootCmd.AddCommand(system.NewDemosCommand(a))
	rootCmd.AddCommand(system.NewStudentsCommand(a))
	rootCmd.AddCommand(system.NewTTSConfigsCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("ruoyi %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
