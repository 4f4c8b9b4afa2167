package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/arnavshah/student-rota/pkg/auth"
	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen USER_ID",
	Short: "Print an API key signed with API_MASTER_SECRET",
	Args:  cobra.ExactArgs(1),
	RunE:  keygen,
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}

func keygen(cmd *cobra.Command, args []string) error {
	cfg, _, err := setup()
	if err != nil {
		return err
	}
	if strings.Contains(args[0], ".") {
		return fmt.Errorf("user id %q must not contain '.'", args[0])
	}
	if cfg.APIMasterSecret == "" {
		return errors.New("API_MASTER_SECRET is not set")
	}
	key := auth.New(cfg.JWTSecret, cfg.APIMasterSecret).GenerateHMACKey(args[0])
	fmt.Fprintf(cmd.OutOrStdout(), "Generated key for %s:\n%s\n", args[0], key)
	return nil
}
