// Package app wires configuration, factories, presentation and the
// evaluation orchestrator into the runnable application.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/streamml/aleval/internal/cli"
	"github.com/streamml/aleval/internal/config"
	apperrors "github.com/streamml/aleval/internal/errors"
	"github.com/streamml/aleval/internal/learner"
	"github.com/streamml/aleval/internal/orchestration"
	"github.com/streamml/aleval/internal/stream"
)

// Application represents the aleval application instance.
type Application struct {
	Config    config.AppConfig
	Learners  *learner.Factory
	Streams   *stream.Factory
	ErrWriter io.Writer
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithLearnerFactory sets a custom learner factory for the application.
func WithLearnerFactory(f *learner.Factory) AppOption {
	return func(a *Application) { a.Learners = f }
}

// WithStreamFactory sets a custom stream factory for the application.
func WithStreamFactory(f *stream.Factory) AppOption {
	return func(a *Application) { a.Streams = f }
}

// New creates a new Application instance by parsing command-line arguments.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Learners == nil {
		app.Learners = learner.NewDefaultFactory()
	}
	if app.Streams == nil {
		app.Streams = stream.NewDefaultFactory()
	}

	programName := "aleval"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Learners.List(), app.Streams.List())
	if err != nil {
		if !IsHelpError(err) {
			fmt.Fprintf(errWriter, "Error: %v\n", err)
		}
		return nil, err
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	if a.Config.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if a.Config.ListParams {
		return a.runListParams(out)
	}

	return a.runEvaluation(ctx, out)
}

// runListParams prints the selected learner's variable parameters.
func (a *Application) runListParams(out io.Writer) int {
	l, err := a.Learners.Get(a.Config.Learner)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	candidates, defaultIndex, _ := orchestration.NewBindingResolver().RefreshCandidates(l)
	cli.PresentCandidates(a.Config.Learner, candidates, defaultIndex, out)
	return apperrors.ExitSuccess
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
