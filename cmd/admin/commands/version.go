package commands

import (
	"github.com/spf13/cobra"

	"kanban-chat-api/internal/printer"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printer.Table([][2]string{
			{"version", version},
			{"commit", commit},
			{"built", date},
		})
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
