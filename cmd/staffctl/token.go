package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"staffline/backend/pkg/jwt"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint an access token for a user (local testing and support)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		ttl, _ := cmd.Flags().GetDuration("ttl")
		token, err := jwt.NewManager(&cfg.Auth).GenerateAccessToken(args[0], ttl)
		if err != nil {
			return fmt.Errorf("签发 Token 失败: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().Duration("ttl", 0, "token lifetime (default auth.access_token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}
