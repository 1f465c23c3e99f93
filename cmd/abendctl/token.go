package main

import (
	"fmt"
	"time"

	"abend-assist-be/internal/config"
	"abend-assist-be/internal/pkg/serverutils"

	"github.com/spf13/cobra"
)

var (
	tokenUser string
	tokenTTL  time.Duration
)

// tokenCmd mints an admin token signed with JWT_SECRET.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin token for the refresh and log endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		token, err := serverutils.GenerateToken(cfg.Auth.JWTSecret, tokenUser, serverutils.RoleAdmin, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "operator", "user id stored in the token")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 12*time.Hour, "token lifetime")
}
