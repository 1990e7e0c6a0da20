package commands

import (
	"fmt"
	"strings"
	"syscall"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

// NewLoginCommand creates the login command
func NewLoginCommand() *cobra.Command {
	var skipVerify bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a Proposify API key",
		Long: `Store a Proposify API key in the config file.

The key is taken from --api-key or read from the terminal without echo. It is
verified against the current user endpoint unless --skip-verify is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := ""
			if flag := cmd.Flag("api-key"); flag != nil && flag.Changed {
				apiKey = flag.Value.String()
			}

			if apiKey == "" {
				_, _ = fmt.Fprint(cmd.OutOrStdout(), "API key: ")

				byteKey, err := term.ReadPassword(int(syscall.Stdin))
				if err != nil {
					return fmt.Errorf("failed to read API key: %w", err)
				}

				_, _ = fmt.Fprintln(cmd.OutOrStdout())
				apiKey = string(byteKey)
			}

			apiKey = strings.TrimSpace(apiKey)
			if apiKey == "" {
				return constants.ErrEmptyAPIKey
			}

			config := loadConfig()
			config.APIKey = apiKey

			if !skipVerify {
				zl, err := newZapLogger(viper.GetBool("verbose"))
				if err != nil {
					return fmt.Errorf("failed to create logger: %w", err)
				}
				defer func() { _ = zl.Sync() }()

				client, err := createClient(cmd.Context(), config, viper.GetBool("verbose"), NewLogger(zl))
				if err != nil {
					return err
				}

				user, err := client.Request(cmd.Context(), proposify.MethodGet, constants.CurrentUserPath, nil, nil)
				if err != nil {
					return fmt.Errorf("failed to verify API key: %w", err)
				}

				if name := displayName(user); name != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Authenticated as %s\n", name)
				}
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key saved")

			return nil
		},
	}

	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "save the key without calling the API")

	return cmd
}

// NewLogoutCommand creates the logout command
func NewLogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()
			config.APIKey = ""

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "API key removed")

			return nil
		},
	}
}

// displayName picks a readable identity from a user response, which may or
// may not be wrapped in a data envelope.
func displayName(user proposify.Record) string {
	if data, ok := user[constants.DataField].(proposify.Record); ok {
		user = data
	}

	for _, key := range []string{"email", "name", "id"} {
		if value := cell(user[key]); value != "" {
			return value
		}
	}

	return ""
}
