package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/promptcorpus/internal/adapters/driving/mcp"
	"github.com/custodia-labs/promptcorpus/internal/adapters/driving/watcher"
	"github.com/custodia-labs/promptcorpus/internal/logger"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server.

By default, the server communicates over stdio using JSON-RPC. Use --port to
start a streamable HTTP server instead.

With --watch the template directory is watched and templates reload when
a .txt file changes.

Examples:
  # Stdio mode (default)
  promptcorpus mcp serve

  # HTTP mode with template reloading
  promptcorpus mcp serve --port 8080 --watch`,
	Args: cobra.NoArgs,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().BoolP("watch", "w", false, "reload templates when the template directory changes")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	watch, _ := cmd.Flags().GetBool("watch")

	ports := &mcp.Ports{
		Templates: templateService,
		Datasets:  datasetService,
		Corpus:    corpusService,
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx := commandContext(cmd)
	logger.Section("MCP server")
	logger.Debug("templates, datasets and corpus tools registered (watch=%t)", watch)

	if watch {
		w, err := startTemplateWatcher(cmd)
		if err != nil {
			return err
		}
		if w != nil {
			defer func() {
				if err := w.Stop(); err != nil {
					logger.Warn("stopping template watcher: %v", err)
				}
			}()
		}
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}

// startTemplateWatcher starts reloading templates on change.
// It returns nil without error when no template directory is configured.
func startTemplateWatcher(cmd *cobra.Command) (*watcher.Watcher, error) {
	if settingsService == nil {
		return nil, errors.New("settings service not configured")
	}

	dir := settingsService.Storage().TemplateDir
	if dir == "" {
		logger.Warn("--watch ignored: no template directory configured")
		return nil, nil
	}

	w, err := watcher.New(watcher.DefaultConfig(dir), templateService)
	if err != nil {
		return nil, err
	}
	if _, err := w.Start(commandContext(cmd)); err != nil {
		_ = w.Stop()
		return nil, err
	}
	return w, nil
}
