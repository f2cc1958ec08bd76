package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/core/domain"
	"github.com/custodia-labs/promptcorpus/internal/fsutil"
)

var templateCmd = &cobra.Command{
	Use:     "template",
	Aliases: []string{"prompt"},
	Short:   "Manage base prompt templates",
	Long: `List, render and add base prompt templates.

Templates are <name>.txt files in the template directory. Placeholders are
written {{{name}}} and replaced by --param name=value when rendering.`,
}

var templateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show template store availability and metadata",
	Args:  cobra.NoArgs,
	RunE:  runTemplateStatus,
}

var templateRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Reload templates from disk",
	Args:  cobra.NoArgs,
	RunE:  runTemplateRefresh,
}

var templateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List loaded templates",
	Args:  cobra.NoArgs,
	RunE:  runTemplateList,
}

var templateGetCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Render a template",
	Long: `Render a template with the given parameters.

An unknown template renders as empty text.

Examples:
  promptcorpus template get greeting --param name=Ada --param place=London`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateGet,
}

var templateGetAllCmd = &cobra.Command{
	Use:   "get-all",
	Short: "Render every template with the same parameters",
	Args:  cobra.NoArgs,
	RunE:  runTemplateGetAll,
}

var templateAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add or overwrite a template",
	Long: `Save a template as <name>.txt and reload the store.

The text is taken from --text, from --file, or from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runTemplateAdd,
}

func init() {
	templateStatusCmd.Flags().Bool("refresh", false, "reload templates first")
	for _, c := range []*cobra.Command{templateGetCmd, templateGetAllCmd} {
		c.Flags().StringArrayP("param", "p", nil, "template parameter as key=value (repeatable)")
		c.Flags().Bool("refresh", false, "reload templates first")
	}
	templateAddCmd.Flags().StringP("file", "f", "", "read template text from file")
	templateAddCmd.Flags().String("text", "", "template text")

	templateCmd.AddCommand(templateStatusCmd)
	templateCmd.AddCommand(templateRefreshCmd)
	templateCmd.AddCommand(templateListCmd)
	templateCmd.AddCommand(templateGetCmd)
	templateCmd.AddCommand(templateGetAllCmd)
	templateCmd.AddCommand(templateAddCmd)
	rootCmd.AddCommand(templateCmd)
}

func runTemplateStatus(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}
	refresh, _ := cmd.Flags().GetBool("refresh")

	status, err := templateService.Status(commandContext(cmd), refresh)
	if err != nil {
		return fmt.Errorf("failed to get template status: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, status)
	}

	if !status.Available {
		cmd.Println("Templates: unavailable (no template directory configured)")
		return nil
	}
	cmd.Printf("Templates: available (%d loaded)\n", len(status.Templates))
	printTemplateInfos(cmd, status.Templates)
	return nil
}

func runTemplateRefresh(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}
	ctx := commandContext(cmd)

	if err := templateService.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh templates: %w", err)
	}

	infos, err := templateService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}
	cmd.Printf("Reloaded %d template(s)\n", len(infos))
	return nil
}

func runTemplateList(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	infos, err := templateService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list templates: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, infos)
	}
	if len(infos) == 0 {
		cmd.Println("No templates loaded.")
		return nil
	}
	printTemplateInfos(cmd, infos)
	return nil
}

func printTemplateInfos(cmd *cobra.Command, infos []domain.TemplateInfo) {
	for _, info := range infos {
		cmd.Printf("  %-24s length=%-6d params=%d\n", info.Name, info.Length, info.ParamNum)
	}
}

func runTemplateGet(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}
	params, refresh, err := renderFlags(cmd)
	if err != nil {
		return err
	}

	rendered, err := templateService.Get(commandContext(cmd), args[0], params, refresh)
	if err != nil {
		return fmt.Errorf("failed to get template: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, rendered)
	}
	fmt.Fprintln(cmd.OutOrStdout(), rendered.Text)
	return nil
}

func runTemplateGetAll(cmd *cobra.Command, _ []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}
	params, refresh, err := renderFlags(cmd)
	if err != nil {
		return err
	}

	rendered, err := templateService.GetAll(commandContext(cmd), params, refresh)
	if err != nil {
		return fmt.Errorf("failed to get templates: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd, rendered)
	}
	out := cmd.OutOrStdout()
	for i := range rendered {
		fmt.Fprintf(out, "=== %s ===\n%s\n", rendered[i].Name, rendered[i].Text)
	}
	return nil
}

func runTemplateAdd(cmd *cobra.Command, args []string) error {
	if templateService == nil {
		return errors.New("template service not configured")
	}

	text, err := readTemplateText(cmd)
	if err != nil {
		return err
	}

	if err := templateService.Add(commandContext(cmd), args[0], text); err != nil {
		return fmt.Errorf("failed to add template: %w", err)
	}
	cmd.Printf("Saved template %q\n", args[0])
	return nil
}

func renderFlags(cmd *cobra.Command) (map[string]string, bool, error) {
	raw, _ := cmd.Flags().GetStringArray("param")
	refresh, _ := cmd.Flags().GetBool("refresh")
	params, err := parseParams(raw)
	if err != nil {
		return nil, false, err
	}
	return params, refresh, nil
}

// parseParams converts key=value pairs into a parameter map.
// Later pairs override earlier ones. Values may contain '='.
func parseParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

func readTemplateText(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("text") {
		text, _ := cmd.Flags().GetString("text")
		return text, nil
	}

	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := fsutil.ReadUTF8File(path)
		if err != nil {
			return "", fmt.Errorf("failed to read template file: %w", err)
		}
		return string(data), nil
	}

	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	data, err := fsutil.DecodeUTF8(raw)
	if err != nil {
		return "", fmt.Errorf("failed to decode stdin: %w", err)
	}
	return string(data), nil
}
