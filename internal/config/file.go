// This file contains the YAML run-file layer of the configuration chain.

package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/streamml/aleval/internal/errors"
)

// runFile mirrors the configurable fields in YAML form. Pointer fields
// distinguish "absent" from an explicit zero value.
type runFile struct {
	Learner          string    `yaml:"learner"`
	Stream           string    `yaml:"stream"`
	Budgets          []float64 `yaml:"budgets"`
	BudgetParam      string    `yaml:"budgetParam"`
	InstanceLimit    *int      `yaml:"instanceLimit"`
	TimeLimitSeconds *int      `yaml:"timeLimitSeconds"`
	SampleFrequency  *int      `yaml:"sampleFrequency"`
	PollInterval     string    `yaml:"pollInterval"`
	Seed             *int64    `yaml:"seed"`
	MetricsAddr      string    `yaml:"metricsAddr"`
	Quiet            *bool     `yaml:"quiet"`
	TUI              *bool     `yaml:"tui"`
	Verbose          *bool     `yaml:"verbose"`
}

// applyFileValues loads the YAML run file at path and applies every present
// value whose corresponding flag was not set explicitly on the command line.
func applyFileValues(cfg *AppConfig, fs *flag.FlagSet, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("cannot read run file %q: %v", path, err)
	}

	var rf runFile
	dec := yaml.NewDecoder(strings.NewReader(string(data)))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil {
		return apperrors.NewConfigError("cannot parse run file %q: %v", path, err)
	}

	if rf.Learner != "" && !isFlagSet(fs, "learner") {
		cfg.Learner = rf.Learner
	}
	if rf.Stream != "" && !isFlagSet(fs, "stream") {
		cfg.Stream = rf.Stream
	}
	if len(rf.Budgets) > 0 && !isFlagSet(fs, "budgets") {
		cfg.budgetsRaw = formatBudgets(rf.Budgets)
	}
	if rf.BudgetParam != "" && !isFlagSet(fs, "budget-param") {
		cfg.BudgetParam = rf.BudgetParam
	}
	if rf.InstanceLimit != nil && !isFlagSet(fs, "instance-limit") {
		cfg.InstanceLimit = *rf.InstanceLimit
	}
	if rf.TimeLimitSeconds != nil && !isFlagSet(fs, "time-limit") {
		cfg.TimeLimitSeconds = *rf.TimeLimitSeconds
	}
	if rf.SampleFrequency != nil && !isFlagSet(fs, "sample-frequency") {
		cfg.SampleFrequency = *rf.SampleFrequency
	}
	if rf.PollInterval != "" && !isFlagSet(fs, "poll-interval") {
		parsed, err := time.ParseDuration(rf.PollInterval)
		if err != nil {
			return apperrors.NewConfigError("run file %q: invalid pollInterval %q", path, rf.PollInterval)
		}
		cfg.PollInterval = parsed
	}
	if rf.Seed != nil && !isFlagSet(fs, "seed") {
		cfg.Seed = *rf.Seed
	}
	if rf.MetricsAddr != "" && !isFlagSet(fs, "metrics-addr") {
		cfg.MetricsAddr = rf.MetricsAddr
	}
	if rf.Quiet != nil && !isFlagSetAny(fs, "quiet", "q") {
		cfg.Quiet = *rf.Quiet
	}
	if rf.TUI != nil && !isFlagSet(fs, "tui") {
		cfg.TUI = *rf.TUI
	}
	if rf.Verbose != nil && !isFlagSetAny(fs, "verbose", "v") {
		cfg.Verbose = *rf.Verbose
	}
	return nil
}

// formatBudgets renders budget values back to the comma-separated textual
// form shared with the -budgets flag.
func formatBudgets(budgets []float64) string {
	parts := make([]string, len(budgets))
	for i, b := range budgets {
		parts[i] = strconv.FormatFloat(b, 'f', -1, 64)
	}
	return strings.Join(parts, ",")
}
