package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/ECNUser/factiva2csv/internal/app"
)

func main() {
	runMain(os.Args, os.Stdout, os.Stderr, os.Exit)
}

func runMain(args []string, stdout, stderr io.Writer, exit func(int)) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := execute(ctx, args[1:], stdout, stderr)
	if err != nil {
		log.Error().Err(err).Msg("run failed")
	}
	exit(exitCode(err))
}

// exitCode maps run errors to the process exit status: 2 when nothing could
// be processed, 1 for usage, configuration and output errors.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, app.ErrInputNotFound), errors.Is(err, app.ErrNoFilesProcessed):
		return 2
	default:
		return 1
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "factiva2csv",
		Short: "Extract articles from Factiva exports into CSV",
		Long: "factiva2csv reads Factiva RTF, HTML or text exports, splits them into articles,\n" +
			"extracts headline, byline, dates, source and body, and writes one CSV row per article.",
		Example:       "  factiva2csv -i export.rtf\n  factiva2csv -i exports/ -m -o all.csv",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := app.LoadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			setupLogging(cfg, stderr)
			if cfg.ConfigFile != "" {
				log.Debug().Str("path", cfg.ConfigFile).Msg("loaded settings")
			}
			a, err := app.New(cfg)
			if err != nil {
				return err
			}
			a.Stderr = stderr
			_, err = a.Run(cmd.Context())
			return err
		},
	}
	app.RegisterFlags(root.Flags())
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), app.VersionString())
		},
	})
	return root
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	setupLogging(app.Config{}, stderr)
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func setupLogging(cfg app.Config, stderr io.Writer) {
	zerolog.TimeFieldFormat = time.RFC3339
	if cfg.LogJSON {
		log.Logger = zerolog.New(stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: stderr, TimeFormat: time.RFC3339})
	}
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}
