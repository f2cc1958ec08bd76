package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/core/services"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change settings",
	Long: `View the resolved storage directories and change configuration keys.

Settings are stored in config.toml inside the configuration directory.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show resolved settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration key",
	Long: `Set a configuration key and save it.

Keys:
  storage.data_dir           base directory for derived paths
  storage.template_dir       template directory (default <data_dir>/base_prompt)
  storage.corpus_dir         corpus directory (default <data_dir>/corpus)
  storage.disable_templates  true to run without templates
  storage.disable_corpus     true to run without a corpus`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

var configKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List settable keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		for _, key := range services.KnownKeys() {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configKeysCmd)
	rootCmd.AddCommand(configCmd)
}

// configShowOutput is the JSON shape printed by config show.
type configShowOutput struct {
	ConfigPath  string         `json:"config_path"`
	DataDir     string         `json:"data_dir"`
	TemplateDir string         `json:"template_dir"`
	CorpusDir   string         `json:"corpus_dir"`
	Explicit    map[string]any `json:"explicit"`
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	storage := settingsService.Storage()
	explicit := settingsService.All()

	if jsonOutput {
		return printJSON(cmd, configShowOutput{
			ConfigPath:  settingsService.ConfigPath(),
			DataDir:     storage.DataDir,
			TemplateDir: storage.TemplateDir,
			CorpusDir:   storage.CorpusDir,
			Explicit:    explicit,
		})
	}

	cmd.Println("Storage")
	cmd.Printf("  Data directory:     %s\n", orUnset(storage.DataDir))
	cmd.Printf("  Template directory: %s\n", orUnset(storage.TemplateDir))
	cmd.Printf("  Corpus directory:   %s\n", orUnset(storage.CorpusDir))

	if len(explicit) > 0 {
		cmd.Println()
		cmd.Printf("Configured in %s\n", settingsService.ConfigPath())
		keys := make([]string, 0, len(explicit))
		for k := range explicit {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("  %s = %v\n", k, explicit[k])
		}
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}
	cmd.Printf("Set %s = %s\n", args[0], args[1])
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	fmt.Fprintln(cmd.OutOrStdout(), settingsService.ConfigPath())
	return nil
}

func orUnset(dir string) string {
	if dir == "" {
		return "(not configured)"
	}
	return dir
}
