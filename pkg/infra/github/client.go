package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"github.com/m-mizutani/goerr/v2"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/interfaces"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/model"
	"github.com/uhernandez2497-source/flota-trigger/pkg/domain/types"
	"golang.org/x/oauth2"
)

const (
	// UserAgent identifies the dashboard to the GitHub API
	UserAgent = "Dashboard-Flota"

	DefaultTimeout = 10 * time.Second
)

// config holds internal client configuration
type config struct {
	baseURL   string
	timeout   time.Duration
	transport http.RoundTripper
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithBaseURL sets the GitHub REST API endpoint, e.g. for GitHub Enterprise or tests
func WithBaseURL(baseURL string) Option {
	return func(c *config) {
		c.baseURL = baseURL
	}
}

// WithTimeout sets the timeout of the outbound HTTP call
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.timeout = timeout
	}
}

// WithTransport sets the base transport under the token transport
func WithTransport(transport http.RoundTripper) Option {
	return func(c *config) {
		c.transport = transport
	}
}

// Client dispatches GitHub Actions workflows with a personal access token
type Client struct {
	githubClient *github.Client
}

var _ interfaces.WorkflowDispatcher = (*Client)(nil)

// NewClient creates a new GitHub client authenticated with token
func NewClient(token string, opts ...Option) (*Client, error) {
	cfg := &config{
		timeout:   DefaultTimeout,
		transport: http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{Source: ts, Base: cfg.transport},
		Timeout:   cfg.timeout,
	}

	githubClient := github.NewClient(httpClient)
	githubClient.UserAgent = UserAgent

	if cfg.baseURL != "" {
		baseURL, err := url.Parse(strings.TrimSuffix(cfg.baseURL, "/") + "/")
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse GitHub API URL",
				goerr.V("base_url", cfg.baseURL),
				goerr.T(types.ErrTagConfiguration))
		}
		githubClient.BaseURL = baseURL
	}

	return &Client{
		githubClient: githubClient,
	}, nil
}

// NewDispatcherFactory returns a factory building a Client per token with the given options
func NewDispatcherFactory(opts ...Option) interfaces.DispatcherFactory {
	return func(token string) (interfaces.WorkflowDispatcher, error) {
		return NewClient(token, opts...)
	}
}

// DispatchWorkflow creates a workflow_dispatch event.
// A non-2xx answer is tagged ErrTagUpstream, a failed round trip ErrTagTransport.
func (c *Client) DispatchWorkflow(ctx context.Context, req *model.WorkflowDispatch) error {
	event := github.CreateWorkflowDispatchEventRequest{
		Ref: req.Ref,
	}

	resp, err := c.githubClient.Actions.CreateWorkflowDispatchEventByFileName(ctx, req.Owner, req.Repo, req.WorkflowFile, event)
	if err == nil {
		return nil
	}

	// go-github reports 202 as an error, but it is a success for us
	var acceptedErr *github.AcceptedError
	if errors.As(err, &acceptedErr) {
		return nil
	}

	if resp == nil || resp.Response == nil {
		return goerr.Wrap(err, "failed to call GitHub API",
			goerr.V("owner", req.Owner),
			goerr.V("repo", req.Repo),
			goerr.V("workflow", req.WorkflowFile),
			goerr.T(types.ErrTagTransport))
	}

	body := readErrorBody(resp.Response, err)
	return goerr.New(fmt.Sprintf("GitHub API error: %d - %s", resp.StatusCode, body),
		goerr.V("status", resp.StatusCode),
		goerr.V("body", body),
		goerr.V("owner", req.Owner),
		goerr.V("repo", req.Repo),
		goerr.V("workflow", req.WorkflowFile),
		goerr.T(types.ErrTagUpstream))
}

// readErrorBody returns the raw text of an error response. go-github restores the
// body after parsing it; when it cannot be read the parsed message is used instead.
func readErrorBody(resp *http.Response, err error) string {
	if resp.Body != nil {
		data, readErr := io.ReadAll(resp.Body)
		if readErr == nil && len(data) > 0 {
			return string(data)
		}
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return errResp.Message
	}
	return ""
}
