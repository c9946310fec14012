package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/ougirez/mapa-innovacio/internal/pkg/constants"
	"github.com/ougirez/mapa-innovacio/internal/pkg/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var flagTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an admin token for the secret_token cookie",
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().DurationVar(&flagTTL, "ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, args []string) error {
	secret := viper.GetString(constants.ViperSecretKey)
	if secret == "" {
		return errors.New("auth.secret is not configured")
	}

	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{Secret: secret}, flagTTL)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
	return err
}
