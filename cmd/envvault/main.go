package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Settings come from the environment; command flags override them.
// Credentials and region stay on the standard AWS variables
// (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, AWS_S3_REGION, ...).
type Settings struct {
	BucketHost string `env:"ENVVAULT_BUCKET_HOST" env-default:""`
	BucketName string `env:"ENVVAULT_BUCKET" env-default:""`
	App        string `env:"ENVVAULT_APP" env-default:"default"`
	Stage      string `env:"ENVVAULT_STAGE" env-default:"default"`
	File       string `env:"ENVVAULT_FILE" env-default:".env"`
	Listen     string `env:"ENVVAULT_LISTEN" env-default:":8080"`
	LogLevel   string `env:"ENVVAULT_LOG_LEVEL" env-default:"info"`
}

func newRootCommand() *cobra.Command {
	// Environment first, so flags default to the configured values and
	// explicit flags win.
	var settings Settings
	if err := cleanenv.ReadEnv(&settings); err != nil {
		fmt.Fprintln(os.Stderr, "error reading environment:", err)
		os.Exit(1)
	}

	cmd := &cobra.Command{
		Use:           "envvault",
		Short:         "Manage .env files in S3-compatible object storage",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&settings.BucketHost, "bucket-host", settings.BucketHost, "virtual-hosted-style bucket host")
	cmd.PersistentFlags().StringVar(&settings.BucketName, "bucket", settings.BucketName, "bucket name (AWS only, region required)")
	cmd.PersistentFlags().StringVar(&settings.App, "app", settings.App, "application name used in object keys")
	cmd.PersistentFlags().StringVar(&settings.Stage, "stage", settings.Stage, "deployment stage used in object keys")
	cmd.PersistentFlags().StringVar(&settings.File, "file", settings.File, "dotenv filename")

	cmd.AddCommand(newPushCommand(&settings))
	cmd.AddCommand(newPullCommand(&settings))
	cmd.AddCommand(newPresignCommand(&settings))
	cmd.AddCommand(newServeCommand(&settings))
	return cmd
}

func newLogger(settings *Settings) zerolog.Logger {
	level, err := zerolog.ParseLevel(settings.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
