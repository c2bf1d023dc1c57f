package cli

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/topicchat/internal/adapters/driven/backend/rest"
	"github.com/custodia-labs/topicchat/internal/adapters/driven/config/memory"
	"github.com/custodia-labs/topicchat/internal/core/services"
	"github.com/custodia-labs/topicchat/internal/testutil/fakebackend"
)

// setupBackend installs services backed by a fake backend serving topics.
func setupBackend(t *testing.T, topics ...string) *fakebackend.Server {
	t.Helper()

	backend := fakebackend.New(t, topics...)
	client := rest.NewClient(rest.Config{
		BaseURL: backend.URL,
		Retry:   rest.RetryPolicy{MaxAttempts: 1},
	})
	chat := services.NewChatService(client)
	t.Cleanup(chat.Close)

	SetServices(&Services{
		Chat:     chat,
		Settings: services.NewSettingsService(memory.NewConfigStore()),
	})
	return backend
}

// execute runs the root command with args and returns what it wrote to stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetCommandState(t)

	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)

	err := ExecuteContext(context.Background())
	return out.String(), err
}

// resetCommandState undoes flag and service state once the test ends.
func resetCommandState(t *testing.T) {
	t.Helper()

	noColor := color.NoColor
	color.NoColor = true

	t.Cleanup(func() {
		color.NoColor = noColor
		svc = nil
		serviceFactory = nil
		flagVerbose, flagBackend, flagConfigDir = false, "", ""
		topicsJSON = false
		askTopic, askRaw, askJSON = "", false, false

		for _, cmd := range rootCmd.Commands() {
			cmd.Flags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		}
		rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) { f.Changed = false })
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}
