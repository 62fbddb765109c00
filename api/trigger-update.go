package handler

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/uhernandez2497-source/flota-trigger/pkg/cli/config"
	controller "github.com/uhernandez2497-source/flota-trigger/pkg/controller/http"
	githubinfra "github.com/uhernandez2497-source/flota-trigger/pkg/infra/github"
	"github.com/uhernandez2497-source/flota-trigger/pkg/usecase"
)

// Handler is the Vercel serverless function entrypoint for /api/trigger-update.
// Everything, configuration included, is built per invocation.
func Handler(w http.ResponseWriter, r *http.Request) {
	logger := newLogger()

	githubCfg := githubConfigFromEnv(logger)
	triggerUC := usecase.NewTrigger(githubinfra.NewDispatcherFactory(githubCfg.Options()...))
	handler := controller.NewTriggerHandler(triggerUC, controller.LoadConfigFromEnv)

	handler.Handle(w, r.WithContext(ctxlog.With(r.Context(), logger)))
}

func newLogger() *slog.Logger {
	level := os.Getenv("FLOTA_TRIGGER_LOG_LEVEL")
	if level == "" {
		level = "info"
	}

	loggerCfg := config.Logger{Level: level, JSON: true}
	logger, err := loggerCfg.Configure()
	if err != nil {
		return slog.Default()
	}
	return logger
}

// githubConfigFromEnv reads the same variables as the CLI flags of config.GitHub.
// An unparsable timeout is logged and the client default is kept.
func githubConfigFromEnv(logger *slog.Logger) config.GitHub {
	cfg := config.GitHub{APIURL: os.Getenv("GITHUB_API_URL")}

	if v := os.Getenv("FLOTA_TRIGGER_GITHUB_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			logger.Warn("Ignoring invalid GitHub timeout", "value", v, "error", err)
		} else {
			cfg.Timeout = timeout
		}
	}
	return cfg
}
