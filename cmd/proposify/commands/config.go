package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/pkg/pfclient"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const maskedValue = "***"

// Config is the persisted CLI configuration.
type Config struct {
	APIKey        string `json:"api_key,omitempty"        yaml:"api_key,omitempty"`
	BaseURL       string `json:"base_url,omitempty"       yaml:"base_url,omitempty"`
	Output        string `json:"output,omitempty"         yaml:"output,omitempty"`
	RetryMax      int    `json:"retry_max,omitempty"      yaml:"retry_max,omitempty"`
	WebhookURL    string `json:"webhook_url,omitempty"    yaml:"webhook_url,omitempty"`
	WebhookSecret string `json:"webhook_secret,omitempty" yaml:"webhook_secret,omitempty"`
	Event         string `json:"event,omitempty"          yaml:"event,omitempty"`
	StateFile     string `json:"state_file,omitempty"     yaml:"state_file,omitempty"`
}

// NewConfigCommand creates the config command group
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "View and modify the Proposify CLI configuration",
	}

	cmd.AddCommand(newConfigShowCommand())
	cmd.AddCommand(newConfigSetCommand())

	return cmd
}

func newConfigShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Long:  "Display the effective configuration with secrets masked",
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig().masked()

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), config, config.table())
		},
	}
}

func newConfigSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Set a configuration value",
		Long: `Set a configuration value and save it to the config file.

Keys: api_key, base_url, output, retry_max, webhook_url, webhook_secret,
event, state_file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			config := loadConfig()

			if err := config.set(args[0], args[1]); err != nil {
				return err
			}

			if err := saveConfig(config); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", args[0])

			return nil
		},
	}
}

func loadConfig() *Config {
	return &Config{
		APIKey:        viper.GetString("api_key"),
		BaseURL:       viper.GetString("base_url"),
		Output:        viper.GetString("output"),
		RetryMax:      viper.GetInt("retry_max"),
		WebhookURL:    viper.GetString("webhook_url"),
		WebhookSecret: viper.GetString("webhook_secret"),
		Event:         viper.GetString("event"),
		StateFile:     viper.GetString("state_file"),
	}
}

func (c *Config) set(key, value string) error {
	switch key {
	case "api_key":
		c.APIKey = value
	case "base_url":
		c.BaseURL = value
	case "output":
		switch value {
		case OutputFormatJSON, OutputFormatYAML, OutputFormatTable:
		default:
			return fmt.Errorf("%w: %s", constants.ErrInvalidOutput, value)
		}

		c.Output = value
	case "retry_max":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: retry_max must be a non-negative integer", constants.ErrInvalidParam)
		}

		c.RetryMax = n
	case "webhook_url":
		c.WebhookURL = value
	case "webhook_secret":
		c.WebhookSecret = value
	case "event":
		if _, err := proposify.ParseEvent(value); err != nil {
			return err
		}

		c.Event = value
	case "state_file":
		c.StateFile = value
	default:
		return fmt.Errorf("%w: %s", constants.ErrUnknownConfig, key)
	}

	return nil
}

func (c *Config) masked() *Config {
	out := *c
	if out.APIKey != "" {
		out.APIKey = maskedValue
	}

	if out.WebhookSecret != "" {
		out.WebhookSecret = maskedValue
	}

	return &out
}

func (c *Config) table() *table {
	return propertyTable(proposify.Record{
		"api_key":        c.APIKey,
		"base_url":       c.BaseURL,
		"output":         c.Output,
		"retry_max":      c.RetryMax,
		"webhook_url":    c.WebhookURL,
		"webhook_secret": c.WebhookSecret,
		"event":          c.Event,
		"state_file":     c.StateFile,
	})
}

// configDir is the directory holding the config file and webhook state.
func configDir() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return filepath.Dir(used), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(home, constants.DefaultConfigDir), nil
}

func configFile() (string, error) {
	if used := viper.ConfigFileUsed(); used != "" {
		return used, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, constants.DefaultConfigName+".yml"), nil
}

// stateFile resolves the webhook state file, relative paths being taken from
// the config directory.
func stateFile(configured string) (string, error) {
	if configured == "" {
		configured = constants.DefaultStateFile
	}

	if filepath.IsAbs(configured) {
		return configured, nil
	}

	dir, err := configDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, configured), nil
}

func saveConfig(config *Config) error {
	path, err := configFile()
	if err != nil {
		return err
	}

	return writeConfigFile(path, config)
}

func writeConfigFile(path string, config *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.ConfigDirPerm); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, constants.ConfigFilePerm); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// session bundles what an API command needs: a client and its logger.
type session struct {
	client proposify.Client
	zap    *zap.Logger
	logger proposify.Logger
}

func (s *session) close() {
	_ = s.zap.Sync()
}

func newSession(ctx context.Context) (*session, error) {
	zl, err := newZapLogger(viper.GetBool("verbose"))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	logger := NewLogger(zl)

	client, err := createClient(ctx, loadConfig(), viper.GetBool("verbose"), logger)
	if err != nil {
		_ = zl.Sync()

		return nil, err
	}

	return &session{client: client, zap: zl, logger: logger}, nil
}

// createClient builds an API client from the CLI configuration.
func createClient(ctx context.Context, config *Config, debug bool, logger proposify.Logger) (proposify.Client, error) {
	if config.APIKey == "" {
		return nil, constants.ErrNoAPIKey
	}

	client, err := pfclient.New(ctx, &proposify.Config{
		BaseURL:     config.BaseURL,
		APIKey:      config.APIKey,
		HTTPTimeout: constants.DefaultHTTPTimeout,
		RetryMax:    config.RetryMax,
		Debug:       debug,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
