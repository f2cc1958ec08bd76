package cli

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/promptcorpus/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/promptcorpus/internal/core/services"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

// testEnv holds the in-memory stores behind the installed services.
type testEnv struct {
	templates *memory.TemplateStore
	datasets  *memory.DatasetStore
	config    *memory.ConfigStore
	dataDir   string
}

// setupTestServices installs real services over in-memory stores.
func setupTestServices(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		templates: memory.NewTemplateStore(),
		datasets:  memory.NewDatasetStore(),
		config:    memory.NewConfigStore(),
		dataDir:   t.TempDir(),
	}

	datasets := services.NewDatasetService(env.datasets)
	SetServices(&Services{
		Templates: services.NewTemplateService(env.templates),
		Datasets:  datasets,
		Corpus:    services.NewCorpusService(datasets, env.datasets),
		Settings:  services.NewSettingsService(env.config, env.dataDir),
	})

	logger.SetOutput(io.Discard)
	t.Cleanup(func() {
		SetServices(&Services{})
		logger.SetOutput(os.Stderr)
		logger.SetVerbose(false)
	})
	return env
}

// runCommand executes the root command with args and optional stdin.
func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag to its default so earlier runs do not leak.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func commandNames(cmd *cobra.Command) []string {
	commands := cmd.Commands()
	names := make([]string, 0, len(commands))
	for _, c := range commands {
		names = append(names, c.Name())
	}
	return names
}
