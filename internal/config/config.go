// Package config defines the application configuration and its resolution
// chain (highest priority first):
//  1. CLI flags (--budgets, --learner, ...)
//  2. Environment variables (ALEVAL_BUDGETS, etc.)
//  3. YAML run file (--config run.yaml)
//  4. Static defaults in this file
package config

import (
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/streamml/aleval/internal/errors"
)

// EnvPrefix is prepended to every environment variable override key.
const EnvPrefix = "ALEVAL_"

// Default configuration values.
const (
	DefaultLearner         = "uncertainty"
	DefaultStream          = "hyperplane"
	DefaultBudgets         = "0.1,0.5,0.9"
	DefaultBudgetParam     = "budget"
	DefaultInstanceLimit   = 100000
	DefaultTimeLimit       = -1
	DefaultSampleFrequency = 1000
	DefaultPollInterval    = 50 * time.Millisecond
	DefaultSeed            = 1
)

// AppConfig holds the fully resolved application configuration.
type AppConfig struct {
	// Learner is the registered name of the classifier to evaluate.
	Learner string
	// Stream is the registered name of the instance generator.
	Stream string
	// Budgets holds the parsed per-variant budget values, in order.
	Budgets []float64
	// BudgetParam is the learner parameter varied across variants.
	BudgetParam string
	// InstanceLimit bounds each run's instance count (-1 = no limit).
	InstanceLimit int
	// TimeLimitSeconds bounds each run's wall time (-1 = no limit).
	TimeLimitSeconds int
	// SampleFrequency is the learning-curve sampling interval in instances.
	SampleFrequency int
	// PollInterval is the aggregation loop's wait between rounds.
	PollInterval time.Duration
	// Seed seeds the stream generators.
	Seed int64
	// MetricsAddr, when non-empty, enables the metrics HTTP server.
	MetricsAddr string
	// ConfigFile is the path of the YAML run file, if any.
	ConfigFile string
	// Quiet suppresses the progress display.
	Quiet bool
	// TUI enables the interactive dashboard.
	TUI bool
	// Verbose enables debug logging.
	Verbose bool
	// ListParams prints the selected learner's variable parameters and exits.
	ListParams bool
	// Version prints version information and exits.
	Version bool

	// budgetsRaw keeps the textual form until validation parses it.
	budgetsRaw string
}

// ParseConfig parses command-line arguments into an AppConfig, applying
// environment and run-file overrides for flags not set explicitly, then
// validates the result against the available learner and stream names.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableLearners, availableStreams []string) (AppConfig, error) {
	cfg := AppConfig{}

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	fs.StringVar(&cfg.Learner, "learner", DefaultLearner,
		fmt.Sprintf("Learner to evaluate (available: %s)", strings.Join(availableLearners, ", ")))
	fs.StringVar(&cfg.Stream, "stream", DefaultStream,
		fmt.Sprintf("Instance stream (available: %s)", strings.Join(availableStreams, ", ")))
	fs.StringVar(&cfg.budgetsRaw, "budgets", DefaultBudgets,
		"Comma-separated budget values, one evaluation run per value")
	fs.StringVar(&cfg.BudgetParam, "budget-param", DefaultBudgetParam,
		"Numeric learner parameter varied across runs")
	fs.IntVar(&cfg.InstanceLimit, "instance-limit", DefaultInstanceLimit,
		"Maximum instances per run (-1 = unlimited)")
	fs.IntVar(&cfg.TimeLimitSeconds, "time-limit", DefaultTimeLimit,
		"Maximum seconds per run (-1 = unlimited)")
	fs.IntVar(&cfg.SampleFrequency, "sample-frequency", DefaultSampleFrequency,
		"Instances between learning-curve samples")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", DefaultPollInterval,
		"Wait between progress-aggregation rounds")
	fs.Int64Var(&cfg.Seed, "seed", DefaultSeed, "Random seed for the instance stream")
	fs.StringVar(&cfg.MetricsAddr, "metrics-addr", "",
		"Listen address for the Prometheus endpoint (empty = disabled)")
	fs.StringVar(&cfg.ConfigFile, "config", "", "YAML run file with configuration values")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Suppress the progress display")
	fs.BoolVar(&cfg.Quiet, "q", false, "Suppress the progress display (shorthand)")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run the interactive dashboard")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&cfg.Verbose, "v", false, "Enable debug logging (shorthand)")
	fs.BoolVar(&cfg.ListParams, "list-params", false,
		"List the selected learner's variable parameters and exit")
	fs.BoolVar(&cfg.Version, "version", false, "Print version information and exit")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	// File values apply before env values, so the environment wins over the
	// file and explicit flags win over both.
	if cfg.ConfigFile != "" {
		if err := applyFileValues(&cfg, fs, cfg.ConfigFile); err != nil {
			return AppConfig{}, err
		}
	}
	applyEnvOverrides(&cfg, fs)

	if err := validate(&cfg, availableLearners, availableStreams); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

// validate checks the resolved configuration and parses the budget list.
func validate(cfg *AppConfig, availableLearners, availableStreams []string) error {
	if !contains(availableLearners, cfg.Learner) {
		return apperrors.NewConfigError("unknown learner %q (available: %s)",
			cfg.Learner, strings.Join(availableLearners, ", "))
	}
	if !contains(availableStreams, cfg.Stream) {
		return apperrors.NewConfigError("unknown stream %q (available: %s)",
			cfg.Stream, strings.Join(availableStreams, ", "))
	}

	budgets, err := ParseBudgets(cfg.budgetsRaw)
	if err != nil {
		return err
	}
	cfg.Budgets = budgets

	if cfg.InstanceLimit == 0 || cfg.InstanceLimit < -1 {
		return apperrors.NewConfigError("instance limit must be positive or -1, got %d", cfg.InstanceLimit)
	}
	if cfg.TimeLimitSeconds == 0 || cfg.TimeLimitSeconds < -1 {
		return apperrors.NewConfigError("time limit must be positive or -1, got %d", cfg.TimeLimitSeconds)
	}
	if cfg.SampleFrequency < 1 {
		return apperrors.NewConfigError("sample frequency must be at least 1, got %d", cfg.SampleFrequency)
	}
	if cfg.PollInterval <= 0 {
		return apperrors.NewConfigError("poll interval must be positive, got %v", cfg.PollInterval)
	}
	return nil
}

// ParseBudgets parses a comma-separated budget list, rejecting empty lists
// and unparseable values.
func ParseBudgets(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	budgets := make([]float64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid budget value %q", part)
		}
		budgets = append(budgets, v)
	}
	if len(budgets) == 0 {
		return nil, apperrors.NewConfigError("at least one budget value is required")
	}
	return budgets, nil
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
