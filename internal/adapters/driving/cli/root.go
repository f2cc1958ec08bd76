// Package cli implements the promptcorpus command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/core/ports/driving"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

var version = "dev"

// Services bundles the driving ports the commands operate on.
type Services struct {
	Templates driving.TemplateService
	Datasets  driving.DatasetService
	Corpus    driving.CorpusService
	Settings  driving.SettingsService
}

var (
	templateService driving.TemplateService
	datasetService  driving.DatasetService
	corpusService   driving.CorpusService
	settingsService driving.SettingsService
)

// serviceFactory builds the services once flags are parsed.
var serviceFactory func(configDir string) (*Services, error)

var (
	verbose    bool
	jsonOutput bool
	configDir  string
)

var rootCmd = &cobra.Command{
	Use:   "promptcorpus",
	Short: "Base prompt templates and fine-tuning corpus datasets",
	Long: `promptcorpus manages a directory of parameterised base prompt templates
and a corpus of conversation records spread across hash-selected bucket files.`,
	SilenceUsage:      true,
	PersistentPreRunE: initServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "",
		"configuration directory (default: ~/.promptcorpus)")
}

func initServices(_ *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)
	if serviceFactory == nil {
		return nil
	}

	svcs, err := serviceFactory(configDir)
	if err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	SetServices(svcs)
	return nil
}

// SetServices installs the services used by every command.
func SetServices(svcs *Services) {
	if svcs == nil {
		return
	}
	templateService = svcs.Templates
	datasetService = svcs.Datasets
	corpusService = svcs.Corpus
	settingsService = svcs.Settings
}

// SetServiceFactory registers a constructor invoked after flag parsing.
func SetServiceFactory(factory func(configDir string) (*Services, error)) {
	serviceFactory = factory
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
