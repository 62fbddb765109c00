package config

import (
	"time"

	githubinfra "github.com/uhernandez2497-source/flota-trigger/pkg/infra/github"
	"github.com/urfave/cli/v3"
)

// GitHub holds GitHub API transport configuration.
// Token, owner and repository are read per invocation, not here.
type GitHub struct {
	APIURL  string
	Timeout time.Duration
}

// Flags returns CLI flags for GitHub configuration
func (c *GitHub) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "github-api-url",
			Usage:       "GitHub REST API endpoint",
			Value:       "https://api.github.com/",
			Destination: &c.APIURL,
			Sources:     cli.EnvVars("GITHUB_API_URL"),
		},
		&cli.DurationFlag{
			Name:        "github-timeout",
			Usage:       "Timeout of the workflow dispatch call",
			Value:       githubinfra.DefaultTimeout,
			Destination: &c.Timeout,
			Sources:     cli.EnvVars("FLOTA_TRIGGER_GITHUB_TIMEOUT"),
		},
	}
}

// Options returns GitHub client options for the configuration
func (c *GitHub) Options() []githubinfra.Option {
	var opts []githubinfra.Option
	if c.APIURL != "" {
		opts = append(opts, githubinfra.WithBaseURL(c.APIURL))
	}
	if c.Timeout > 0 {
		opts = append(opts, githubinfra.WithTimeout(c.Timeout))
	}
	return opts
}
