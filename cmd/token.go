package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/aouyang1/signage/auth"
)

var (
	tokenUser   string
	tokenGroups []string
	tokenTTL    time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token signed with the configured secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Auth.Secret == "" {
			return errors.New("auth.secret is required to mint tokens")
		}

		token, err := auth.Mint(cfg.Auth.Secret, cfg.Auth.Issuer, tokenUser, tokenGroups, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenUser, "user", "", "user name placed in the token subject")
	tokenCmd.Flags().StringSliceVar(&tokenGroups, "group", []string{auth.GroupEditor}, "groups of the user")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	_ = tokenCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(tokenCmd)
}
