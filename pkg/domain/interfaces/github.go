package interfaces

import (
	"context"

	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
)

// WorkflowDispatcher defines operations for triggering GitHub Actions workflows
type WorkflowDispatcher interface {
	// DispatchWorkflow creates a workflow_dispatch event for the given workflow and ref
	DispatchWorkflow(ctx context.Context, req *model.WorkflowDispatch) error
}

// DispatcherFactory creates a WorkflowDispatcher authenticated with token.
// The token comes from the per-invocation configuration, so clients are not shared.
type DispatcherFactory func(token string) (WorkflowDispatcher, error)
