package cli

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/uhernandez2497-source/flota-trigger/pkg/cli/config"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
	"github.com/urfave/cli/v3"
)

const (
	envFileFlag = "env-file"
	envFileEnv  = "FLOTA_TRIGGER_ENV_FILE"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg config.Logger
		sentryCfg config.Sentry
		logger    *slog.Logger
	)

	// Flags take their env sources while parsing, so the file must be loaded before that
	envFile := envFileFromArgs(args)
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			err = goerr.Wrap(err, "failed to load env file", goerr.V("path", envFile))
			slog.Default().Error("CLI execution failed", slog.Any("error", err))
			return err
		}
	}

	flags := append(loggerCfg.Flags(), sentryCfg.Flags()...)
	flags = append(flags, &cli.StringFlag{
		Name:    envFileFlag,
		Usage:   "Load environment variables such as GITHUB_TOKEN from a dotenv file",
		Sources: cli.EnvVars(envFileEnv),
	})

	app := &cli.Command{
		Name:    "flota-trigger",
		Usage:   "Trigger the Dashboard Flota data refresh workflow on GitHub Actions",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			var err error
			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)

			if envFile != "" {
				logger.Info("Loaded env file", "path", envFile)
			}

			if err := sentryCfg.Configure(); err != nil {
				return nil, err
			}
			if sentryCfg.Enabled() {
				logger.Info("Sentry error reporting enabled", "env", sentryCfg.Env)
			}

			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if sentryCfg.Enabled() {
				sentry.Flush(2 * time.Second)
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdTrigger(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}

// envFileFromArgs finds the env file given by --env-file (or -env-file) in args,
// falling back to FLOTA_TRIGGER_ENV_FILE. Scanning stops at "--".
func envFileFromArgs(args []string) string {
	for i := 1; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}

		name := strings.TrimLeft(arg, "-")
		if name == arg {
			continue
		}
		if value, ok := strings.CutPrefix(name, envFileFlag+"="); ok {
			return value
		}
		if name == envFileFlag && i+1 < len(args) {
			return args[i+1]
		}
	}
	return os.Getenv(envFileEnv)
}
