package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/richardoros/unified-defense/internal/engine"
	"github.com/richardoros/unified-defense/internal/model"
	"github.com/richardoros/unified-defense/internal/policy"
)

var (
	checkCommand string
	checkPath    string
	checkWrite   bool
	checkFormat  string
)

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkCommand, "command", "", "Shell command to evaluate")
	checkCmd.Flags().StringVar(&checkPath, "path", "", "Target path to evaluate")
	checkCmd.Flags().BoolVar(&checkWrite, "write", false, "Treat the path access as a write (read_only rules then block)")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "Output format (text|json)")
	checkCmd.MarkFlagsOneRequired("command", "path")
	checkCmd.MarkFlagsMutuallyExclusive("command", "path")
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run a command or edit against the policy",
	Long: "Evaluates one command or edit target without executing anything.\n" +
		"Exit code 0 if allowed, 1 if blocked. Unlike the hook commands this\n" +
		"does not fail open: a broken config is reported as an error.",
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	pol, err := policy.Load(configFlag)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load policy: %w", err)
		}
		pol = policy.Empty()
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no config file found, empty policy allows everything")
	}

	var verdict model.Verdict
	if checkCommand != "" {
		verdict = engine.EvaluateCommand(checkCommand, pol)
	} else {
		verdict = engine.EvaluateAccess(checkPath, checkWrite, pol)
	}

	switch checkFormat {
	case "json":
		out, err := json.MarshalIndent(verdict, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", verdict.Decision, verdict.Reason)
	}

	if !verdict.Allowed() {
		os.Exit(1)
	}
	return nil
}
