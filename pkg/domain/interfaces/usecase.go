package interfaces

import (
	"context"

	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
)

// TriggerUseCase defines the dashboard data refresh trigger
type TriggerUseCase interface {
	// TriggerUpdate dispatches the data refresh workflow described by cfg.
	// Returned errors carry one of the tags in the types package.
	TriggerUpdate(ctx context.Context, cfg *model.DispatchConfig) error
}
