package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWebhooksCommand(t *testing.T) {
	t.Parallel()

	cmd := NewWebhooksCommand()
	assert.Equal(t, "webhooks", cmd.Use)
	assert.Equal(t, []string{"webhook", "wh"}, cmd.Aliases)
	assert.Equal(t, "Manage webhook registrations", cmd.Short)

	var commandNames []string
	for _, subcmd := range cmd.Commands() {
		commandNames = append(commandNames, subcmd.Name())
		assert.NotNil(t, subcmd.RunE, subcmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "check", "create", "delete", "state", "events"}, commandNames)

	for _, name := range []string{"url", "event", "secret", "state-file"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}

	create := findSubcommand(cmd, "create")
	require.NotNil(t, create)
	assert.NotNil(t, create.Flags().Lookup("force"))
}

func TestNewConfigCommand(t *testing.T) {
	t.Parallel()

	cmd := NewConfigCommand()
	assert.Equal(t, "config", cmd.Use)
	assert.Len(t, cmd.Commands(), 2)

	set := findSubcommand(cmd, "set")
	require.NotNil(t, set)
	assert.Equal(t, "set KEY VALUE", set.Use)
	require.Error(t, set.Args(set, []string{"output"}))
	require.NoError(t, set.Args(set, []string{"output", "yaml"}))

	assert.NotNil(t, findSubcommand(cmd, "show"))
}

func TestNewExecCommand(t *testing.T) {
	t.Parallel()

	cmd := NewExecCommand()
	assert.Equal(t, "exec RESOURCE OPERATION", cmd.Use)
	assert.Equal(t, "Run a node operation", cmd.Short)
	require.Error(t, cmd.Args(cmd, []string{"proposal"}))

	for _, name := range []string{"param", "items", "continue-on-fail", "binary-dir"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, ".", cmd.Flags().Lookup("binary-dir").DefValue)
}

func TestNewRequestCommand(t *testing.T) {
	t.Parallel()

	cmd := NewRequestCommand()
	assert.Equal(t, "request METHOD PATH", cmd.Use)
	require.Error(t, cmd.Args(cmd, []string{"GET"}))
	assert.NotNil(t, cmd.Flags().Lookup("data"))
	assert.NotNil(t, cmd.Flags().Lookup("query"))
	assert.NotNil(t, cmd.Flags().Lookup("all"))
}

func TestNewRequestCommand_RejectsMethod(t *testing.T) {
	t.Parallel()

	cmd := NewRequestCommand()
	err := cmd.RunE(cmd, []string{"patch", "/proposals"})
	require.ErrorIs(t, err, ErrInvalidMethod)
}

func TestNewServeCommand(t *testing.T) {
	t.Parallel()

	cmd := NewServeCommand()
	assert.Equal(t, "serve", cmd.Use)

	flags := map[string]string{
		"addr":         ":8080",
		"metrics-addr": ":9090",
		"path":         "/webhook",
		"nats-url":     "",
		"nats-subject": "proposify.events",
		"register":     "false",
	}

	for name, def := range flags {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, def, flag.DefValue, name)
	}

	assert.NotNil(t, cmd.PersistentFlags().Lookup("secret"))
}

func TestSimpleCommands(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "login", NewLoginCommand().Use)
	assert.NotNil(t, NewLoginCommand().Flags().Lookup("skip-verify"))
	assert.Equal(t, "logout", NewLogoutCommand().Use)
	assert.Equal(t, "download PATH", NewDownloadCommand().Use)
	assert.NotNil(t, NewDownloadCommand().Flags().Lookup("file"))
	assert.Equal(t, "operations", NewOperationsCommand().Use)
	assert.Equal(t, "version", NewVersionCommand("1.0.0", "abc", "today").Use)
}
