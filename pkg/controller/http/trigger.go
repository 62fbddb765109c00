package http

import (
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/interfaces"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
)

// ConfigLoader builds the dispatch configuration of one invocation
type ConfigLoader func() *model.DispatchConfig

// TriggerHandler handles dashboard requests to refresh its data
type TriggerHandler struct {
	triggerUC  interfaces.TriggerUseCase
	loadConfig ConfigLoader
	now        func() time.Time
}

// NewTriggerHandler creates a new TriggerHandler
func NewTriggerHandler(triggerUC interfaces.TriggerUseCase, loadConfig ConfigLoader) *TriggerHandler {
	return &TriggerHandler{
		triggerUC:  triggerUC,
		loadConfig: loadConfig,
		now:        time.Now,
	}
}

// Handle processes trigger requests
func (h *TriggerHandler) Handle(w http.ResponseWriter, r *http.Request) {
	// CORS headers go first so that every response shape carries them
	setCORSHeaders(w)

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusOK)
		return
	case http.MethodPost:
	default:
		writeError(w, goerr.New("Method not allowed"), http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	logger := ctxlog.From(ctx).With("invocation_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	if err := h.triggerUC.TriggerUpdate(ctx, h.loadConfig()); err != nil {
		logger.Error("Failed to trigger workflow",
			"error", err,
			"kind", types.KindOf(err),
		)
		sentry.CaptureException(err)
		writeJSON(w, model.NewTriggerFailure(err, h.now()), http.StatusInternalServerError)
		return
	}

	writeJSON(w, model.NewTriggerSuccess(h.now()), http.StatusOK)
}

func setCORSHeaders(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
