package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"applypilot/internal/domain"
	"applypilot/internal/secrets"
)

var credsCmd = &cobra.Command{
	Use:   "creds",
	Short: "Manage stored platform logins",
}

var credsSetCmd = &cobra.Command{
	Use:   "set <platform>",
	Short: "Store a platform login in the system keychain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := parsePlatform(args[0])
		if err != nil {
			return err
		}

		in := bufio.NewReader(cmd.InOrStdin())
		out := cmd.OutOrStdout()

		fmt.Fprint(out, "Username: ")
		user, err := in.ReadString('\n')
		if err != nil {
			return err
		}
		fmt.Fprint(out, "Password: ")
		pass, err := in.ReadString('\n')
		if err != nil {
			return err
		}

		kc := secrets.Keychain{}
		if err := kc.SetCredentials(platform, secrets.Credentials{
			Username: strings.TrimSpace(user),
			Password: strings.TrimSpace(pass),
		}); err != nil {
			return err
		}
		fmt.Fprintf(out, "Stored login for %s.\n", platform)
		return nil
	},
}

var credsDeleteCmd = &cobra.Command{
	Use:   "delete <platform>",
	Short: "Remove a stored platform login",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		platform, err := parsePlatform(args[0])
		if err != nil {
			return err
		}
		kc := secrets.Keychain{}
		if err := kc.DeleteCredentials(platform); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed login for %s.\n", platform)
		return nil
	},
}

func parsePlatform(s string) (domain.Platform, error) {
	switch p := domain.Platform(strings.ToLower(s)); p {
	case domain.PlatformLinkedIn, domain.PlatformIndeed, domain.PlatformGlassdoor, domain.PlatformEmail:
		return p, nil
	default:
		return "", fmt.Errorf("unknown platform %q (want linkedin, indeed, glassdoor, or email)", s)
	}
}

func init() {
	credsCmd.AddCommand(credsSetCmd, credsDeleteCmd)
	rootCmd.AddCommand(credsCmd)
}
