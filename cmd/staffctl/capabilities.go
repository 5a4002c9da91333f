package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"staffline/backend/pkg/database"
)

var capabilitiesCmd = &cobra.Command{
	Use:   "capabilities",
	Short: "Show which optional storage capabilities the server would use",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withSQLDB(cmd, func(env *sqlEnv) error {
			caps := database.DetectCapabilities(database.NewColumnProber(env.db), env.cfg.Marketplace.FlagColumn, env.logger)
			fmt.Fprintf(cmd.OutOrStdout(), "flag_column mode: %s\nmarketplace_flag: %v\n",
				env.cfg.Marketplace.FlagColumn, caps.MarketplaceFlag)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(capabilitiesCmd)
}
