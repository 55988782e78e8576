package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var configFlag string

var rootCmd = &cobra.Command{
	Use:   "defense",
	Short: "Access-control filter for agent tool calls",
	Long: "Evaluates shell commands and file edits against a declarative policy\n" +
		"of protected paths, dangerous command patterns and safe zones before\n" +
		"the agent acts. Allow or block, with a reason.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "",
		"Path to patterns.yaml (default: $UNIFIED_DEFENSE_CONFIG, then ~/.claude/hooks/unified-defense/config/patterns.yaml)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
