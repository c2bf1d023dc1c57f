package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/core/domain"
	"github.com/custodia-labs/topicchat/internal/core/services"
)

var errSettingsNotConfigured = errors.New("settings service not configured")

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change the topicchat configuration file.

Settings resolve from built-in defaults, then the config file, then the
environment (TOPICCHAT_BACKEND_URL, TOPICCHAT_LOG_FILE), then flags.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if svc == nil || svc.Settings == nil {
			return errSettingsNotConfigured
		}
		fmt.Fprintln(cmd.OutOrStdout(), svc.Settings.ConfigPath())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value and save it to the config file.

Keys: ` + strings.Join(services.KnownKeys(), ", ") + `

Topic icons are set per display name:
  topicchat config set "topics.icons.Data Visualization" 📈`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if svc == nil || svc.Settings == nil {
		return errSettingsNotConfigured
	}

	settings, err := svc.Settings.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	writeSettings(cmd.OutOrStdout(), settings)
	return nil
}

func writeSettings(w io.Writer, s *domain.AppSettings) {
	pairs := [][2]string{
		{services.KeyBackendURL, s.Backend.URL},
		{services.KeyBackendTimeout, fmt.Sprintf("%d", int(s.Backend.Timeout.Seconds()))},
		{services.KeyRateLimit, fmt.Sprintf("%g", s.Backend.RateLimit)},
		{services.KeyRetryAttempts, fmt.Sprintf("%d", s.Retry.MaxAttempts)},
		{services.KeyRetryBackoff, fmt.Sprintf("%d", s.Retry.Backoff.Milliseconds())},
		{services.KeyLogVerbose, fmt.Sprintf("%t", s.Log.Verbose)},
		{services.KeyLogFile, s.Log.File},
	}
	for _, p := range pairs {
		fmt.Fprintf(w, "%s = %s\n", p[0], p[1])
	}

	names := make([]string, 0, len(s.TopicIcons))
	for name := range s.TopicIcons {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s.%s = %s\n", services.KeyTopicIcons, name, s.TopicIcons[name])
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if svc == nil || svc.Settings == nil {
		return errSettingsNotConfigured
	}

	if err := svc.Settings.Set(args[0], args[1]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])
	return nil
}
