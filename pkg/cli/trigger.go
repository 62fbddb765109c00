package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/uhernandez2497-source/flota-trigger/pkg/cli/config"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/interfaces"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
	githubinfra "github.com/uhernandez2497-source/flota-trigger/pkg/infra/github"
	"github.com/uhernandez2497-source/flota-trigger/pkg/usecase"
	"github.com/urfave/cli/v3"
)

func cmdTrigger() *cli.Command {
	var githubCfg config.GitHub

	return &cli.Command{
		Name:    "trigger",
		Aliases: []string{"t"},
		Usage:   "Dispatch the data refresh workflow once and print the result",
		Flags:   githubCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			triggerUC := usecase.NewTrigger(githubinfra.NewDispatcherFactory(githubCfg.Options()...))
			return runTrigger(ctx, triggerUC, model.DispatchConfigFromEnv(os.Getenv), os.Stdout, os.Stderr)
		},
	}
}

// runTrigger writes the JSON response to stdout and a summary line to stderr
func runTrigger(ctx context.Context, triggerUC interfaces.TriggerUseCase, cfg *model.DispatchConfig, stdout, stderr io.Writer) error {
	triggerErr := triggerUC.TriggerUpdate(ctx, cfg)

	var resp *model.TriggerResponse
	if triggerErr != nil {
		resp = model.NewTriggerFailure(triggerErr, time.Now())
	} else {
		resp = model.NewTriggerSuccess(time.Now())
	}

	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return goerr.Wrap(err, "failed to write response")
	}

	if triggerErr != nil {
		color.New(color.FgRed).Fprintf(stderr, "✗ %s/%s %s: %s (%s)\n",
			cfg.Owner, cfg.Repo, cfg.WorkflowFile, resp.Error, types.KindOf(triggerErr))
		return triggerErr
	}

	color.New(color.FgGreen).Fprintf(stderr, "✓ %s/%s %s dispatched on %s. %s\n",
		cfg.Owner, cfg.Repo, cfg.WorkflowFile, cfg.Ref, resp.Note)
	return nil
}
