// Package cli wires fiberd's cobra command tree: version, test (the
// spec.md §6 self-test harness), and serve (a demo RPC server for
// manual/integration poking).
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/RevCBH/fiberd/internal/config"
)

// versionInfo is populated by the build (see cmd/fiberd/main.go) and
// read by the version command.
type versionInfo struct {
	Version string
	Commit  string
	Date    string
}

// App wires the root command and the process-wide state its
// subcommands share.
type App struct {
	rootCmd *cobra.Command

	verbose bool
	cancel  context.CancelFunc

	versionInfo versionInfo
	config      *config.Config
}

// New creates the fiberd CLI application.
func New() *App {
	app := &App{}
	app.setupRootCmd()
	return app
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.rootCmd.Execute()
}

// SetVersion sets the version/commit/date trio reported by `fiberd version`.
func (a *App) SetVersion(version, commit, date string) {
	a.versionInfo = versionInfo{Version: version, Commit: commit, Date: date}
}

func (a *App) setupRootCmd() {
	a.rootCmd = &cobra.Command{
		Use:   "fiberd",
		Short: "Cooperative fiber scheduler and RPC runtime",
		Long: `fiberd runs an event-driven, single-threaded cooperative fiber
scheduler: goroutine-backed fibers suspend at explicit points (I/O,
timers, synchronization primitives) and resume without ever running
concurrently with another fiber, on top of which an RPC server and
client exchange request/response frames: a method-id byte followed by
typed parameters.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	a.rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output")
	a.rootCmd.PersistentFlags().StringVar(&configPath, "config", "fiberd.yaml", "path to the configuration file")

	a.rootCmd.AddCommand(NewVersionCmd(a))
	a.rootCmd.AddCommand(NewTestCmd(a))
	a.rootCmd.AddCommand(NewServeCmd(a))
}

// configPath is bound by the root command's persistent --config flag
// and read by subcommands that need a loaded Config.
var configPath string

func (a *App) loadConfig() (*config.Config, error) {
	if a.config != nil {
		return a.config, nil
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a.config = cfg
	return cfg, nil
}
