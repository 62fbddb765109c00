package usecase

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/interfaces"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
)

type triggerUseCase struct {
	newDispatcher interfaces.DispatcherFactory
}

// NewTrigger creates a new instance of TriggerUseCase
func NewTrigger(newDispatcher interfaces.DispatcherFactory) interfaces.TriggerUseCase {
	return &triggerUseCase{
		newDispatcher: newDispatcher,
	}
}

// TriggerUpdate dispatches the dashboard data refresh workflow.
// Errors from the dispatcher are returned as is so that their message reaches the caller unchanged.
func (uc *triggerUseCase) TriggerUpdate(ctx context.Context, cfg *model.DispatchConfig) error {
	logger := ctxlog.From(ctx)

	if cfg == nil || cfg.Token == "" {
		return goerr.New(model.ErrMsgTokenNotConfigured, goerr.T(types.ErrTagConfiguration))
	}

	dispatcher, err := uc.newDispatcher(cfg.Token)
	if err != nil {
		return goerr.Wrap(err, "failed to create GitHub client", goerr.T(types.ErrTagConfiguration))
	}

	req := cfg.WorkflowDispatch()
	logger.Info("Dispatching workflow",
		"config", cfg,
		"owner", req.Owner,
		"repo", req.Repo,
		"workflow", req.WorkflowFile,
		"ref", req.Ref,
	)

	if err := dispatcher.DispatchWorkflow(ctx, req); err != nil {
		return err
	}

	logger.Info("Workflow dispatched",
		"owner", req.Owner,
		"repo", req.Repo,
		"workflow", req.WorkflowFile,
	)

	return nil
}
