package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/talentflow/auth-service/internal/infrastructure/security"
)

// NewHashPasswordCmd creates the hash-password subcommand.
func NewHashPasswordCmd() *cobra.Command {
	var cost int

	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt hash of a password read from stdin",
		Long: `Read a single password line from stdin and print the hash the
service would store for it. Useful for seeding accounts by hand.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return errors.New("hash-password: no password on stdin")
			}
			password := strings.TrimRight(line, "\r\n")

			hash, err := security.NewBcryptHasher(cost).Hash(password)
			if err != nil {
				return err
			}
			cmd.Println(hash)
			return nil
		},
	}

	cmd.Flags().IntVar(&cost, "cost", security.DefaultCost, "bcrypt cost factor")
	return cmd
}
