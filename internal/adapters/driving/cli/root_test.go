package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/promptcorpus/internal/core/services"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "promptcorpus", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := commandNames(rootCmd)

	for _, name := range []string{"template", "dataset", "corpus", "config", "mcp", "version"} {
		assert.Contains(t, names, name)
	}
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	for _, name := range []string{"verbose", "json", "config-dir"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), name)
	}
}

func TestServiceFactory(t *testing.T) {
	original := serviceFactory
	defer func() { serviceFactory = original }()

	t.Run("receives config dir", func(t *testing.T) {
		env := setupTestServices(t)
		installed := services.NewSettingsService(env.config, "/factory")
		var gotDir string
		SetServiceFactory(func(dir string) (*Services, error) {
			gotDir = dir
			return &Services{Settings: installed}, nil
		})
		defer SetServiceFactory(nil)

		out, err := runCommand(t, "", "--config-dir", "/etc/promptcorpus", "config", "path")

		require.NoError(t, err)
		assert.Equal(t, "/etc/promptcorpus", gotDir)
		assert.Equal(t, ":memory:\n", out)
		assert.Same(t, installed, settingsService)
	})

	t.Run("error aborts command", func(t *testing.T) {
		setupTestServices(t)
		SetServiceFactory(func(string) (*Services, error) {
			return nil, errors.New("boom")
		})
		defer SetServiceFactory(nil)

		_, err := runCommand(t, "", "version")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "initialising services: boom")
	})
}

func TestVerboseFlag(t *testing.T) {
	setupTestServices(t)

	_, err := runCommand(t, "", "--verbose", "version")

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}

func TestSetServices_NilIsNoop(t *testing.T) {
	env := setupTestServices(t)
	before := settingsService

	SetServices(nil)

	assert.Equal(t, before, settingsService)
	assert.NotNil(t, env)
}

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetOut(buf)

	require.NoError(t, printJSON(cmd, map[string]int{"a": 1}))

	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestPrintJSON_MarshalError(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))

	err := printJSON(cmd, make(chan int))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to marshal output")
}
