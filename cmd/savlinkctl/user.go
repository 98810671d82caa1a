package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "User account operations",
	Long:  `Display information about the Savlink account the API token belongs to.`,
}

var userProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Display the authenticated user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := newClient(cmd)
		if err != nil {
			return err
		}

		user, err := client.Me()
		if err != nil {
			return fmt.Errorf("failed to retrieve user profile: %w", err)
		}

		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), user)
		}

		verified := "no"
		if user.EmailVerified {
			verified = "yes"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "ID:              %s\n", user.ID)
		fmt.Fprintf(out, "Name:            %s\n", orDash(user.Name))
		fmt.Fprintf(out, "Email:           %s\n", orDash(user.Email))
		fmt.Fprintf(out, "Email verified:  %s\n", verified)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userProfileCmd)
}
