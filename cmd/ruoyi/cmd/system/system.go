// Package system provides the audio, book, demo, student and TTS config commands.
package system

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ruoyi-fastapi/ruoyi-go"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/application"
	"github.com/ruoyi-fastapi/ruoyi-go/cmd/ruoyi/cmd/resource"
	"github.com/ruoyi-fastapi/ruoyi-go/internal/cmd/output"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/api"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/constants"
	"github.com/ruoyi-fastapi/ruoyi-go/pkg/errors"
)

// NewAudioCommand creates the audio command.
func NewAudioCommand(app application.Application) *cobra.Command {
	cmd := resource.NewCommand(app, resource.Definition[api.Audio, api.AudioQuery]{
		Use:     "audio",
		Aliases: []string{"audios"},
		Spec:    api.AudioSpec,
		Columns: []string{"audioId", "audioName", "voice", "duration", "fileSize", "status", "createTime"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.Audio, api.AudioQuery] {
			return c.Audio.Resource
		},
	})
	cmd.AddCommand(newAudioGenerateCommand(app))
	cmd.AddCommand(newVoicesCommand(app))
	cmd.AddCommand(newAudioTTSConfigsCommand(app))
	cmd.AddCommand(newAudioDownloadCommand(app))
	return cmd
}

func newAudioGenerateCommand(app application.Application) *cobra.Command {
	var req api.AudioGenerate
	cmd := &cobra.Command{
		Use:   "generate <text>",
		Short: "Synthesize speech and store it as a new audio record",
		Args:  cobra.ExactArgs(1),
		Example: `  ruoyi audio generate "build finished" --voice alloy --name deploy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			body := req
			body.InputText = args[0]
			if body.InputText == "" {
				return errors.NewValidationError("text", body.InputText, "must not be empty")
			}

			result, err := client.Audio.Generate(cmd.Context(), &body)
			if err != nil {
				return err
			}
			return output.Value(cmd.OutOrStdout(), format(app), nil, result)
		},
	}
	cmd.Flags().Int64Var(&req.ConfigID, "config", 0, "TTS config id, 0 for the default config")
	cmd.Flags().StringVar(&req.AudioName, "name", "", "Audio name")
	cmd.Flags().StringVar(&req.Voice, "voice", "", "Voice, see 'ruoyi audio voices'")
	cmd.Flags().StringVar(&req.Model, "model", "", "Model override, e.g. tts-1")
	cmd.Flags().Float64Var(&req.Speed, "speed", 0, "Playback speed, 0 for the server default")
	cmd.Flags().StringVar(&req.ResponseFormat, "audio-format", "", "Audio encoding, e.g. mp3")
	return cmd
}

func newVoicesCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List the voices the server can synthesize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			voices, err := client.Audio.Voices(cmd.Context())
			if err != nil {
				return err
			}
			return output.Value(cmd.OutOrStdout(), format(app), nil, voices)
		},
	}
}

func newAudioTTSConfigsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "tts-configs",
		Short: "List the TTS configurations available for generation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			configs, err := client.Audio.TTSConfigs(cmd.Context())
			if err != nil {
				return err
			}
			return output.Value(cmd.OutOrStdout(), format(app), nil, configs)
		},
	}
}

func newAudioDownloadCommand(app application.Application) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "download <audioId>",
		Short: "Download an audio file",
		Args:  cobra.ExactArgs(1),
		Example: `  ruoyi audio download 12 --out hello.mp3
  ruoyi audio download 12 --out - | mpv -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := app.Client()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.DownloadTimeout)
			defer cancel()

			file, err := client.Audio.Download(ctx, api.ID(args[0]))
			if err != nil {
				return err
			}

			dest := out
			if dest == "" {
				dest = resource.DefaultFileName(file, "audio-"+args[0])
			}
			return resource.SaveFile(cmd, app, dest, file)
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Destination file, - for stdout (default: server-provided name)")
	return cmd
}

// NewBooksCommand creates the books command.
func NewBooksCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.Book, api.BookQuery]{
		Use:     "books",
		Aliases: []string{"book"},
		Spec:    api.BookSpec,
		Columns: []string{"bookId", "bookName", "author", "isbn", "price", "stock", "status"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.Book, api.BookQuery] {
			return c.Books.Resource
		},
		Exporter: func(c *ruoyi.Client) *api.Exporter[api.Book, api.BookQuery] {
			return c.Books
		},
	})
}

// NewDemosCommand creates the demos command.
func NewDemosCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.Demo, api.DemoQuery]{
		Use:     "demos",
		Aliases: []string{"demo"},
		Spec:    api.DemoSpec,
		Columns: []string{"id", "demoName", "status"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.Demo, api.DemoQuery] {
			return c.Demos
		},
	})
}

// NewStudentsCommand creates the students command.
func NewStudentsCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.Student, api.StudentQuery]{
		Use:     "students",
		Aliases: []string{"student"},
		Spec:    api.StudentSpec,
		Columns: []string{"studentId", "studentNo", "studentName", "gender", "className", "major", "status"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.Student, api.StudentQuery] {
			return c.Students
		},
	})
}

// NewTTSConfigsCommand creates the tts-configs command.
func NewTTSConfigsCommand(app application.Application) *cobra.Command {
	return resource.NewCommand(app, resource.Definition[api.TTSConfig, api.TTSConfigQuery]{
		Use:     "tts-configs",
		Aliases: []string{"tts-config", "tts"},
		Spec:    api.TTSConfigSpec,
		Columns: []string{"configId", "configName", "apiUrl", "apiModel", "isDefault", "status"},
		Resource: func(c *ruoyi.Client) *api.Resource[api.TTSConfig, api.TTSConfigQuery] {
			return c.TTSConfigs.Resource
		},
		Exporter: func(c *ruoyi.Client) *api.Exporter[api.TTSConfig, api.TTSConfigQuery] {
			return c.TTSConfigs
		},
	})
}

func format(app application.Application) output.Format {
	return output.DetectFormat(app.OutputFormat())
}
