package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidyapp/tidy/internal/clock"
	"github.com/tidyapp/tidy/internal/config"
	"github.com/tidyapp/tidy/internal/engine"
	"github.com/tidyapp/tidy/internal/fsops"
	"github.com/tidyapp/tidy/internal/history"
)

// Output formats accepted by the --format flag.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatPlain = "plain"
)

// ExitError carries a process exit code past cobra's error handling.
// Commands that already printed their results return it instead of a
// regular error so main can exit without printing anything more.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode maps an Execute error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}

// newEngine creates an engine with real implementations of all dependencies,
// configured from the data root and optional config.yaml.
func newEngine() (*engine.Engine, *config.Config, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get config paths: %w", err)
	}

	if err := paths.EnsureDirectories(); err != nil {
		return nil, nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	cfg, err := config.Load(paths.ConfigFile)
	if err != nil {
		return nil, nil, err
	}

	fs := fsops.NewRealFS()
	store := history.NewFileStore(fs, paths.HistoryFile)
	clk := &clock.RealClock{}
	limits := engine.Limits{
		MaxEntries: cfg.History.MaxEntries,
		MaxAgeDays: cfg.History.MaxAgeDays,
	}

	return engine.New(fs, store, clk, limits), cfg, nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM, so an
// in-flight batch stops at the next file boundary.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// validFormat checks a --format value.
func validFormat(format string) error {
	switch format {
	case formatTable, formatJSON, formatPlain:
		return nil
	}
	return fmt.Errorf("invalid format %q (expected table, json, or plain)", format)
}

// outputJSON outputs a value as JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
