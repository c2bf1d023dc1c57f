package cli

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/topicchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/topicchat/internal/logger"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for topicchat.

Topics are listed on the left and the conversation in the centre. Select
a topic, then type questions in the input at the bottom.

Controls:
  ↑/k, ↓/j - Move through topics
  Enter    - Select topic / Send question
  Tab      - Switch between topics and input
  r        - Reload topics
  PgUp/Dn  - Scroll the conversation
  ?        - Toggle help
  Ctrl+C   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	chat, err := chatService()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(tui.NewPorts(chat, svc.Settings))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())
	if svc.Watcher != nil {
		app.WithWatcher(svc.Watcher)
	}

	// Log lines would corrupt the screen.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
