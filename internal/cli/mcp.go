package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/richardoros/unified-defense/internal/mcp"
)

func init() {
	rootCmd.AddCommand(mcpCmd)
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the MCP stdio server exposing dry-run check tools",
	Long: "Serves defense_check_command and defense_check_edit over MCP stdio\n" +
		"transport so MCP-speaking agents can consult the policy directly.",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := mcp.New(mcp.Config{ConfigPath: configFlag})
		if err != nil {
			return fmt.Errorf("failed to create MCP server: %w", err)
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}
