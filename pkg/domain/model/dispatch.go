package model

// Defaults of the dashboard repository and its data refresh workflow
const (
	DefaultOwner        = "uhernandez2497-source"
	DefaultRepo         = "dashboard-flota"
	DefaultWorkflowFile = "actualizar-datos.yml"
	DefaultRef          = "master"
)

// Environment variables read on every invocation
const (
	EnvGitHubToken = "GITHUB_TOKEN"
	EnvGitHubOwner = "GITHUB_OWNER"
	EnvGitHubRepo  = "GITHUB_REPO"
)

// ErrMsgTokenNotConfigured is returned to the caller when GITHUB_TOKEN is empty
const ErrMsgTokenNotConfigured = "GITHUB_TOKEN no configurado en variables de entorno"

// DispatchConfig holds the configuration of a single trigger invocation.
// It is built per request and never cached.
type DispatchConfig struct {
	Token        string `masq:"secret"`
	Owner        string
	Repo         string
	WorkflowFile string
	Ref          string
}

// DispatchConfigFromEnv builds a DispatchConfig with getenv, typically os.Getenv.
// Owner and Repo fall back to their defaults when unset; WorkflowFile and Ref are fixed.
func DispatchConfigFromEnv(getenv func(string) string) *DispatchConfig {
	cfg := &DispatchConfig{
		Token:        getenv(EnvGitHubToken),
		Owner:        getenv(EnvGitHubOwner),
		Repo:         getenv(EnvGitHubRepo),
		WorkflowFile: DefaultWorkflowFile,
		Ref:          DefaultRef,
	}
	if cfg.Owner == "" {
		cfg.Owner = DefaultOwner
	}
	if cfg.Repo == "" {
		cfg.Repo = DefaultRepo
	}
	return cfg
}

// WorkflowDispatch returns the outbound dispatch request described by the config
func (c *DispatchConfig) WorkflowDispatch() *WorkflowDispatch {
	return &WorkflowDispatch{
		Owner:        c.Owner,
		Repo:         c.Repo,
		WorkflowFile: c.WorkflowFile,
		Ref:          c.Ref,
	}
}

// WorkflowDispatch represents a workflow_dispatch request to GitHub Actions
type WorkflowDispatch struct {
	Owner        string // Repository owner
	Repo         string // Repository name
	WorkflowFile string // Workflow file name under .github/workflows
	Ref          string // Branch the workflow runs on
}
