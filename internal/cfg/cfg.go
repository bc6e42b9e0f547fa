// Package cfg holds the application configuration, registered as flags and
// filled from the environment by main.
package cfg

import (
	"errors"
	"flag"
	"fmt"
)

// Config adds acuity-specific configuration fields to the
// common cfg.Registerable and cfg.Validatable interfaces
type Config struct {
	DrainSeconds          int
	ShutdownBudgetSeconds int
	APIPort               int
	ClaudeAPIKey          string
	ClaudeModel           string
	RemoteTimeoutSeconds  int
	MinSymptomsChars      int
	DatabaseURL           string
	SlackWebhookURL       string
	APIToken              string
}

// RegisterFlags binds Config fields to the given FlagSet with defaults inline
func (c *Config) RegisterFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.DrainSeconds, "drain-seconds", 60, "seconds to wait for in-flight requests to drain before shutdown (1..300)")
	fs.IntVar(&c.ShutdownBudgetSeconds, "shutdown-budget-seconds", 90, "total seconds for component shutdown after drain (1..300)")
	fs.IntVar(&c.APIPort, "http-port", 8080, "API listen TCP port (1..65535)")
	fs.StringVar(&c.ClaudeAPIKey, "claude-api-key", "", "API key for the Claude classifier (empty = local heuristic only)")
	fs.StringVar(&c.ClaudeModel, "claude-model", "claude-sonnet-4-20250514", "Claude model to use")
	fs.IntVar(&c.RemoteTimeoutSeconds, "remote-timeout-seconds", 15, "seconds to wait for the remote classifier before falling back (1..120)")
	fs.IntVar(&c.MinSymptomsChars, "min-symptoms-chars", 1, "minimum accepted length of the symptoms text (>= 1)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "PostgreSQL connection URL (empty = in-memory store)")
	fs.StringVar(&c.SlackWebhookURL, "slack-webhook-url", "", "Slack webhook URL for high-acuity notifications")
	fs.StringVar(&c.APIToken, "api-token", "", "bearer token for the triage API (empty = auth disabled)")
}

// Validate checks all configuration fields for correctness.
// It returns an error if any field is invalid, or nil if all fields are valid.
func (c *Config) Validate() error {
	var errs []error

	// Drain and shutdown budgets
	if c.DrainSeconds <= 0 || c.DrainSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid DRAIN_SECONDS %d (must be 1..300)", c.DrainSeconds))
	}
	if c.ShutdownBudgetSeconds <= 0 || c.ShutdownBudgetSeconds > 300 {
		errs = append(errs, fmt.Errorf("invalid SHUTDOWN_BUDGET_SECONDS %d (must be 1..300)", c.ShutdownBudgetSeconds))
	}

	// Shutdown budget must be greater than drain time
	if c.ShutdownBudgetSeconds <= c.DrainSeconds {
		errs = append(errs, fmt.Errorf("SHUTDOWN_BUDGET_SECONDS %d must be greater than DRAIN_SECONDS %d", c.ShutdownBudgetSeconds, c.DrainSeconds))
	}

	// API port must be valid TCP port number
	if c.APIPort <= 0 || c.APIPort > 65535 {
		errs = append(errs, fmt.Errorf("invalid HTTP_PORT %d (must be 1..65535)", c.APIPort))
	}

	// The Claude API key is deliberately optional: its absence switches the
	// engine to the local heuristic path. The model is required regardless
	// so a key added at deploy time cannot meet an empty model.
	if c.ClaudeModel == "" {
		errs = append(errs, errors.New("CLAUDE_MODEL is required"))
	}

	if c.RemoteTimeoutSeconds <= 0 || c.RemoteTimeoutSeconds > 120 {
		errs = append(errs, fmt.Errorf("invalid REMOTE_TIMEOUT_SECONDS %d (must be 1..120)", c.RemoteTimeoutSeconds))
	}

	if c.MinSymptomsChars < 1 {
		errs = append(errs, fmt.Errorf("invalid MIN_SYMPTOMS_CHARS %d (must be >= 1)", c.MinSymptomsChars))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
