// Package cli provides the cobra command tree for topicchat.
// It is a driving adapter: commands talk to the core through driving ports
// supplied by a ServiceFactory at startup.
package cli

import (
	"context"
	"errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/topicchat/internal/core/ports/driving"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// Options carries the global flag values to the ServiceFactory.
type Options struct {
	// Verbose enables debug logging.
	Verbose bool

	// BackendURL overrides the configured backend when non-empty.
	BackendURL string

	// ConfigDir overrides the configuration directory when non-empty.
	ConfigDir string
}

// Services are the driving ports the commands use.
type Services struct {
	Chat     driving.ChatService
	Settings driving.SettingsService

	// Watcher reports config file changes to the TUI. Optional.
	Watcher tui.Watcher

	// Close releases resources once the command finishes. Optional.
	Close func()
}

// ServiceFactory builds the services for one invocation.
type ServiceFactory func(ctx context.Context, opts Options) (*Services, error)

var (
	serviceFactory ServiceFactory
	svc            *Services
)

var (
	flagVerbose   bool
	flagBackend   string
	flagConfigDir string
)

var rootCmd = &cobra.Command{
	Use:   "topicchat",
	Short: "Ask questions about course topics from the terminal",
	Long: `topicchat is a terminal client for a topic-based question answering
backend. Pick a topic, ask questions, and read answers with the source
pages they were drawn from.

Configuration lives in ~/.topicchat/config.toml. The backend URL can also
be set with TOPICCHAT_BACKEND_URL or --backend.`,
	SilenceUsage:      true,
	PersistentPreRunE: setupServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "print debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default ~/.topicchat)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetServiceFactory sets the function used to build services before a
// command runs.
func SetServiceFactory(f ServiceFactory) {
	serviceFactory = f
}

// SetServices installs prebuilt services, bypassing the factory.
func SetServices(s *Services) {
	svc = s
}

// Execute runs the root command and releases services afterwards,
// whether or not the command failed.
func Execute() error {
	defer closeServices()
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx. Services are released as
// in Execute.
func ExecuteContext(ctx context.Context) error {
	defer closeServices()
	return rootCmd.ExecuteContext(ctx)
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(flagVerbose)

	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env loaded: %v", err)
	}

	if svc != nil || serviceFactory == nil {
		return nil
	}

	built, err := serviceFactory(cmd.Context(), Options{
		Verbose:    flagVerbose,
		BackendURL: flagBackend,
		ConfigDir:  flagConfigDir,
	})
	if err != nil {
		return err
	}
	svc = built
	return nil
}

func closeServices() {
	if svc != nil && svc.Close != nil {
		svc.Close()
	}
}

// errNotConfigured is returned when a command runs without services.
var errNotConfigured = errors.New("chat service not configured")

func chatService() (driving.ChatService, error) {
	if svc == nil || svc.Chat == nil {
		return nil, errNotConfigured
	}
	return svc.Chat, nil
}
