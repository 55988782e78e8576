package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/richardoros/unified-defense/internal/hook"
)

func init() {
	rootCmd.AddCommand(bashHookCmd)
	rootCmd.AddCommand(editHookCmd)
}

var bashHookCmd = &cobra.Command{
	Use:   "bash-hook",
	Short: "Evaluate a Bash tool call from the hook protocol",
	Long: "Reads a hook payload from stdin and evaluates the command against\n" +
		"the policy. Exit 0 allows, exit 2 blocks with the reason on stderr.\n" +
		"Config or input failures fail open (exit 0).",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(hook.RunBash(cmd.InOrStdin(), cmd.ErrOrStderr(), configFlag))
	},
}

var editHookCmd = &cobra.Command{
	Use:   "edit-hook",
	Short: "Evaluate an Edit tool call from the hook protocol",
	Long: "Reads a hook payload from stdin and evaluates the target path against\n" +
		"the policy. Edits are always treated as writes. Exit 0 allows, exit 2\n" +
		"blocks with the reason on stderr. Failures fail open (exit 0).",
	Run: func(cmd *cobra.Command, args []string) {
		os.Exit(hook.RunEdit(cmd.InOrStdin(), cmd.ErrOrStderr(), configFlag))
	},
}
