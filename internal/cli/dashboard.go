package cli

import (
	"github.com/spf13/cobra"

	"github.com/richardoros/unified-defense/internal/dashboard"
)

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Interactive status dashboard",
	Long: "Shows the current mode, logging state, decision statistics and recent\n" +
		"audit activity. Toggle mode with m, logging with l, quit with q.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return dashboard.Run(configFlag)
	},
}
