package http_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	controller "github.com/uhernandez2497-source/flota-trigger/pkg/controller/http"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
	githubinfra "github.com/uhernandez2497-source/flota-trigger/pkg/infra/github"
	"github.com/uhernandez2497-source/flota-trigger/pkg/usecase"
)

// MockTriggerUseCase is a mock implementation of TriggerUseCase
type MockTriggerUseCase struct {
	triggerFunc func(ctx context.Context, cfg *model.DispatchConfig) error
	calls       []*model.DispatchConfig
}

func (m *MockTriggerUseCase) TriggerUpdate(ctx context.Context, cfg *model.DispatchConfig) error {
	m.calls = append(m.calls, cfg)
	if m.triggerFunc != nil {
		return m.triggerFunc(ctx, cfg)
	}
	return nil
}

// fakeGitHub records workflow dispatch calls and answers with a fixed status
type fakeGitHub struct {
	status int
	body   string

	mu       sync.Mutex
	requests []*http.Request
}

func (f *fakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Clone(context.Background()))
	f.mu.Unlock()

	w.WriteHeader(f.status)
	_, _ = io.WriteString(w, f.body)
}

func (f *fakeGitHub) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

// newTriggerHandler wires the real use case and GitHub client against a fake API
func newTriggerHandler(t *testing.T, gh *fakeGitHub, env map[string]string) *controller.TriggerHandler {
	t.Helper()

	api := httptest.NewServer(gh)
	t.Cleanup(api.Close)

	uc := usecase.NewTrigger(githubinfra.NewDispatcherFactory(githubinfra.WithBaseURL(api.URL)))
	return controller.NewTriggerHandler(uc, func() *model.DispatchConfig {
		return model.DispatchConfigFromEnv(func(key string) string {
			return env[key]
		})
	})
}

func assertCORS(t *testing.T, w *httptest.ResponseRecorder) {
	t.Helper()
	gt.V(t, w.Header().Get("Access-Control-Allow-Origin")).Equal("*")
	gt.V(t, w.Header().Get("Access-Control-Allow-Methods")).Equal("POST, OPTIONS")
	gt.V(t, w.Header().Get("Access-Control-Allow-Headers")).Equal("Content-Type")
}

func decodeTriggerResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func assertTimestamp(t *testing.T, body map[string]any) {
	t.Helper()
	ts, ok := body["timestamp"].(string)
	if !ok {
		t.Fatalf("timestamp is missing or not a string: %v", body["timestamp"])
	}
	parsed, err := time.Parse(time.RFC3339Nano, ts)
	gt.NoError(t, err)
	if time.Since(parsed) > time.Minute || time.Until(parsed) > time.Minute {
		t.Errorf("timestamp %s is not close to now", ts)
	}
}

func TestTriggerHandler_Preflight(t *testing.T) {
	gh := &fakeGitHub{status: http.StatusNoContent}
	handler := newTriggerHandler(t, gh, map[string]string{"GITHUB_TOKEN": "ghp_test"})

	req := httptest.NewRequest(http.MethodOptions, "/api/trigger-update", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	gt.V(t, w.Code).Equal(http.StatusOK)
	gt.V(t, w.Body.Len()).Equal(0)
	assertCORS(t, w)
	gt.V(t, gh.count()).Equal(0)
}

func TestTriggerHandler_MethodNotAllowed(t *testing.T) {
	methods := []string{
		http.MethodGet,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodHead,
	}

	for _, method := range methods {
		t.Run(method, func(t *testing.T) {
			gh := &fakeGitHub{status: http.StatusNoContent}
			handler := newTriggerHandler(t, gh, map[string]string{"GITHUB_TOKEN": "ghp_test"})

			req := httptest.NewRequest(method, "/api/trigger-update", nil)
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.V(t, w.Code).Equal(http.StatusMethodNotAllowed)
			gt.V(t, strings.TrimSpace(w.Body.String())).Equal(`{"error":"Method not allowed"}`)
			assertCORS(t, w)
			gt.V(t, gh.count()).Equal(0)
		})
	}
}

func TestTriggerHandler_MissingToken(t *testing.T) {
	gh := &fakeGitHub{status: http.StatusNoContent}
	handler := newTriggerHandler(t, gh, map[string]string{})

	req := httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	gt.V(t, w.Code).Equal(http.StatusInternalServerError)
	assertCORS(t, w)

	body := decodeTriggerResponse(t, w)
	gt.V(t, body["success"]).Equal(any(false))
	gt.V(t, body["error"]).Equal(any("GITHUB_TOKEN no configurado en variables de entorno"))
	assertTimestamp(t, body)
	gt.V(t, gh.count()).Equal(0)
}

func TestTriggerHandler_Success(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{name: "No Content", status: http.StatusNoContent},
		{name: "Accepted", status: http.StatusAccepted},
		{name: "OK", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gh := &fakeGitHub{status: tt.status}
			handler := newTriggerHandler(t, gh, map[string]string{
				"GITHUB_TOKEN": "ghp_test",
				"GITHUB_OWNER": "fleet-ops",
				"GITHUB_REPO":  "fleet-dashboard",
			})

			req := httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil)
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.V(t, w.Code).Equal(http.StatusOK)
			gt.V(t, w.Header().Get("Content-Type")).Equal("application/json")
			assertCORS(t, w)

			body := decodeTriggerResponse(t, w)
			gt.V(t, body["success"]).Equal(any(true))
			gt.V(t, body["message"]).Equal(any("Actualización iniciada desde OneDrive"))
			gt.V(t, body["note"]).Equal(any("Los datos se actualizarán en 30-60 segundos"))
			assertTimestamp(t, body)
			_, hasError := body["error"]
			gt.False(t, hasError)

			gt.V(t, gh.count()).Equal(1)
			gt.V(t, gh.requests[0].URL.Path).Equal("/repos/fleet-ops/fleet-dashboard/actions/workflows/actualizar-datos.yml/dispatches")
			gt.V(t, gh.requests[0].Header.Get("Authorization")).Equal("Bearer ghp_test")
		})
	}
}

func TestTriggerHandler_UpstreamError(t *testing.T) {
	gh := &fakeGitHub{status: http.StatusNotFound, body: "Not Found"}
	handler := newTriggerHandler(t, gh, map[string]string{"GITHUB_TOKEN": "ghp_test"})

	req := httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil)
	w := httptest.NewRecorder()
	handler.Handle(w, req)

	gt.V(t, w.Code).Equal(http.StatusInternalServerError)
	assertCORS(t, w)

	body := decodeTriggerResponse(t, w)
	gt.V(t, body["success"]).Equal(any(false))
	gt.V(t, body["error"]).Equal(any("GitHub API error: 404 - Not Found"))
	assertTimestamp(t, body)
	_, hasMessage := body["message"]
	gt.False(t, hasMessage)
}

func TestTriggerHandler_UseCaseErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "Transport failure",
			err:  goerr.New("failed to call GitHub API: connection refused", goerr.T(types.ErrTagTransport)),
		},
		{
			name: "Untagged failure",
			err:  goerr.New("unexpected"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &MockTriggerUseCase{
				triggerFunc: func(ctx context.Context, cfg *model.DispatchConfig) error {
					return tt.err
				},
			}
			handler := controller.NewTriggerHandler(uc, func() *model.DispatchConfig {
				return &model.DispatchConfig{Token: "ghp_test"}
			})

			req := httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil)
			w := httptest.NewRecorder()
			handler.Handle(w, req)

			gt.V(t, w.Code).Equal(http.StatusInternalServerError)
			assertCORS(t, w)

			body := decodeTriggerResponse(t, w)
			gt.V(t, body["success"]).Equal(any(false))
			gt.V(t, body["error"]).Equal(any(tt.err.Error()))
			assertTimestamp(t, body)
		})
	}
}

func TestTriggerHandler_LoadsConfigPerRequest(t *testing.T) {
	uc := &MockTriggerUseCase{}
	tokens := []string{"ghp_first", "ghp_second"}
	var loads int
	handler := controller.NewTriggerHandler(uc, func() *model.DispatchConfig {
		cfg := &model.DispatchConfig{Token: tokens[loads]}
		loads++
		return cfg
	})

	for range tokens {
		req := httptest.NewRequest(http.MethodPost, "/api/trigger-update", nil)
		w := httptest.NewRecorder()
		handler.Handle(w, req)
		gt.V(t, w.Code).Equal(http.StatusOK)
	}

	gt.V(t, len(uc.calls)).Equal(2)
	gt.V(t, uc.calls[0].Token).Equal("ghp_first")
	gt.V(t, uc.calls[1].Token).Equal("ghp_second")
}

func TestTriggerHandler_Integration(t *testing.T) {
	ctx := context.Background()
	gh := &fakeGitHub{status: http.StatusNoContent}
	api := httptest.NewServer(gh)
	defer api.Close()

	uc := usecase.NewTrigger(githubinfra.NewDispatcherFactory(githubinfra.WithBaseURL(api.URL)))
	server, err := controller.NewServer(
		ctx,
		uc,
		controller.WithAddr("localhost:0"),
		controller.WithConfigLoader(func() *model.DispatchConfig {
			return &model.DispatchConfig{
				Token:        "ghp_test",
				Owner:        model.DefaultOwner,
				Repo:         model.DefaultRepo,
				WorkflowFile: model.DefaultWorkflowFile,
				Ref:          model.DefaultRef,
			}
		}),
	)
	gt.NoError(t, err)

	ts := httptest.NewServer(server.Handler)
	defer ts.Close()

	tests := []struct {
		method     string
		wantStatus int
	}{
		{method: http.MethodOptions, wantStatus: http.StatusOK},
		{method: http.MethodGet, wantStatus: http.StatusMethodNotAllowed},
		{method: http.MethodPost, wantStatus: http.StatusOK},
		{method: "PURGE", wantStatus: http.StatusMethodNotAllowed},
		{method: "PROPFIND", wantStatus: http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			req, err := http.NewRequest(tt.method, ts.URL+"/api/trigger-update", nil)
			gt.NoError(t, err)

			resp, err := http.DefaultClient.Do(req)
			gt.NoError(t, err)
			defer func() {
				_ = resp.Body.Close() // Error ignored in test
			}()

			gt.V(t, resp.StatusCode).Equal(tt.wantStatus)
			gt.V(t, resp.Header.Get("Access-Control-Allow-Origin")).Equal("*")

			if tt.wantStatus == http.StatusMethodNotAllowed {
				body, err := io.ReadAll(resp.Body)
				gt.NoError(t, err)
				gt.V(t, strings.TrimSpace(string(body))).Equal(`{"error":"Method not allowed"}`)
			}
		})
	}

	gt.V(t, gh.count()).Equal(1)
}

func TestServer_UnknownMethodOnOtherRoute(t *testing.T) {
	server, err := controller.NewServer(context.Background(), &MockTriggerUseCase{})
	gt.NoError(t, err)

	req := httptest.NewRequest("PURGE", "/health", nil)
	w := httptest.NewRecorder()
	server.Handler.ServeHTTP(w, req)

	gt.V(t, w.Code).Equal(http.StatusMethodNotAllowed)
	gt.V(t, w.Header().Get("Access-Control-Allow-Origin")).Equal("")
}
