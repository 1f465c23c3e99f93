package main

import (
	"net/http"
	"time"

	"abend-assist-be/internal/config"
	"abend-assist-be/internal/dto"
	"abend-assist-be/internal/pkg/serverutils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Ask a running server to reload the abend data",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		token, err := serverutils.GenerateToken(cfg.Auth.JWTSecret, "abendctl", serverutils.RoleAdmin, time.Minute)
		if err != nil {
			return err
		}

		res, err := sendRequest[dto.RefreshAbendsResponse](http.MethodPost, apiURL(serverURL, "/api/abends/refresh"), token, nil)
		if err != nil {
			return err
		}
		color.Green("Reloaded %d records at %s", res.Data.Count, res.Data.LoadedAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	refreshCmd.Flags().StringVar(&serverURL, "url", "http://localhost:3000", "server base URL")
}
