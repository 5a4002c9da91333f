package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"staffline/backend/pkg/jwt"
	"staffline/backend/pkg/redis"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke <token>",
	Short: "Blacklist an access token until it expires",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		defer logger.Sync()

		claims, err := jwt.NewManager(&cfg.Auth).ParseToken(args[0])
		if err != nil {
			return fmt.Errorf("解析 Token 失败: %w", err)
		}

		rdb, err := redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			return err
		}
		defer rdb.Close()

		ttl := claims.Remaining(time.Now())
		if err := rdb.BlacklistToken(cmd.Context(), claims.ID, ttl); err != nil {
			return fmt.Errorf("写入黑名单失败: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "revoked %s for user %s (%s remaining)\n", claims.ID, claims.UserID, ttl.Round(time.Second))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(revokeCmd)
}
