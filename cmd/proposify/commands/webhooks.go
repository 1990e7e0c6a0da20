package commands

import (
	"fmt"
	"slices"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/store"
	"github.com/fivetwenty-io/proposify/internal/webhook"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// webhookFlags are shared by the webhooks subcommands and serve.
type webhookFlags struct {
	url       string
	event     string
	secret    string
	stateFile string
}

func (f *webhookFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.url, "url", "", "callback URL deliveries are sent to (default webhook_url)")
	cmd.PersistentFlags().StringVar(&f.event, "event", "", "event to subscribe to (default proposal.created)")
	cmd.PersistentFlags().StringVar(&f.secret, "secret", "", "signing secret (default webhook_secret)")
	cmd.PersistentFlags().StringVar(&f.stateFile, "state-file", "", "registration state file (default ~/.proposify/"+constants.DefaultStateFile+")")
}

// resolve fills unset flags from the configuration.
func (f *webhookFlags) resolve() (webhookFlags, error) {
	config := loadConfig()

	out := webhookFlags{
		url:       firstNonEmpty(f.url, config.WebhookURL),
		event:     firstNonEmpty(f.event, config.Event, string(proposify.DefaultEvent)),
		secret:    firstNonEmpty(f.secret, config.WebhookSecret),
		stateFile: firstNonEmpty(f.stateFile, config.StateFile),
	}

	if _, err := proposify.ParseEvent(out.event); err != nil {
		return out, err
	}

	path, err := stateFile(out.stateFile)
	if err != nil {
		return out, err
	}

	out.stateFile = path

	return out, nil
}

func (f webhookFlags) manager(client proposify.RequestClient, logger proposify.Logger) *webhook.Manager {
	return webhook.NewManager(client, f.url, proposify.Event(f.event), f.secret, logger)
}

// NewWebhooksCommand creates the webhooks command group
func NewWebhooksCommand() *cobra.Command {
	flags := &webhookFlags{}

	cmd := &cobra.Command{
		Use:     "webhooks",
		Aliases: []string{"webhook", "wh"},
		Short:   "Manage webhook registrations",
		Long: `Register, inspect and remove Proposify webhooks.

Registration ids are kept in a state file keyed by callback URL and event, so
a later delete removes the registration created earlier.`,
	}

	flags.register(cmd)

	cmd.AddCommand(newWebhooksListCommand())
	cmd.AddCommand(newWebhooksCheckCommand(flags))
	cmd.AddCommand(newWebhooksCreateCommand(flags))
	cmd.AddCommand(newWebhooksDeleteCommand(flags))
	cmd.AddCommand(newWebhooksStateCommand(flags))
	cmd.AddCommand(newWebhooksEventsCommand())

	return cmd
}

func newWebhooksListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered webhooks",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context())
			if err != nil {
				return err
			}
			defer s.close()

			registrations, err := webhook.NewManager(s.client, "", "", "", s.logger).List(cmd.Context())
			if err != nil {
				return err
			}

			tbl := &table{headers: []string{"ID", "URL", "Event", "Active"}}
			for _, r := range registrations {
				tbl.rows = append(tbl.rows, []string{r.ID, r.URL, r.Event, fmt.Sprint(r.Active)})
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), registrations, tbl)
		},
	}
}

// lifecycleResult is printed by check, create and delete.
type lifecycleResult struct {
	URL    string `json:"url"    yaml:"url"`
	Event  string `json:"event"  yaml:"event"`
	ID     string `json:"id"     yaml:"id"`
	Result bool   `json:"result" yaml:"result"`
}

func (r lifecycleResult) table() *table {
	return &table{
		headers: []string{"URL", "Event", "ID", "Result"},
		rows:    [][]string{{r.URL, r.Event, r.ID, fmt.Sprint(r.Result)}},
	}
}

// lifecycleCommand runs one lifecycle step against the persisted state and
// saves the state afterwards.
func lifecycleCommand(flags *webhookFlags, step func(cmd *cobra.Command, m *webhook.Manager, data *store.FileStaticData) (bool, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resolved, err := flags.resolve()
		if err != nil {
			return err
		}

		if resolved.url == "" {
			return constants.ErrNoWebhookURL
		}

		data, err := store.Open(resolved.stateFile, resolved.url, resolved.event)
		if err != nil {
			return err
		}

		s, err := newSession(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		result, err := step(cmd, resolved.manager(s.client, s.logger), data)
		if err != nil {
			return err
		}

		if err := data.Flush(); err != nil {
			return err
		}

		out := lifecycleResult{URL: resolved.url, Event: resolved.event, ID: data.WebhookID(), Result: result}

		return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), out, out.table())
	}
}

func newWebhooksCheckCommand(flags *webhookFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check whether the webhook is registered",
		RunE: lifecycleCommand(flags, func(cmd *cobra.Command, m *webhook.Manager, data *store.FileStaticData) (bool, error) {
			return m.CheckExists(cmd.Context(), data), nil
		}),
	}
}

func newWebhooksCreateCommand(flags *webhookFlags) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register the webhook",
		Long:  "Register the webhook unless a matching registration already exists",
		RunE: lifecycleCommand(flags, func(cmd *cobra.Command, m *webhook.Manager, data *store.FileStaticData) (bool, error) {
			if !force && m.CheckExists(cmd.Context(), data) {
				return true, nil
			}

			ok, err := m.Create(cmd.Context(), data)
			if err != nil {
				return false, err
			}

			if !ok {
				return false, proposify.ErrWebhookNotRegistered
			}

			return true, nil
		}),
	}

	cmd.Flags().BoolVar(&force, "force", false, "register even when a matching webhook exists")

	return cmd
}

func newWebhooksDeleteCommand(flags *webhookFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove the webhook registration",
		RunE: lifecycleCommand(flags, func(cmd *cobra.Command, m *webhook.Manager, data *store.FileStaticData) (bool, error) {
			return m.Delete(cmd.Context(), data), nil
		}),
	}
}

func newWebhooksStateCommand(flags *webhookFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "state",
		Short: "Show the persisted registration state",
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := flags.resolve()
			if err != nil {
				return err
			}

			entries, err := store.Entries(resolved.stateFile)
			if err != nil {
				return err
			}

			keys := make([]string, 0, len(entries))
			for key := range entries {
				keys = append(keys, key)
			}

			slices.Sort(keys)

			list := make([]store.Entry, 0, len(keys))
			tbl := &table{headers: []string{"ID", "URL", "Event", "Updated"}}

			for _, key := range keys {
				entry := entries[key]
				list = append(list, entry)
				tbl.rows = append(tbl.rows, []string{entry.ID, entry.URL, entry.Event, entry.UpdatedAt.Format("2006-01-02 15:04:05")})
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), list, tbl)
		},
	}
}

func newWebhooksEventsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "List subscribable events",
		RunE: func(cmd *cobra.Command, args []string) error {
			events := proposify.Events()
			names := make([]string, len(events))
			tbl := &table{headers: []string{"Event"}}

			for i, event := range events {
				names[i] = event.String()
				tbl.rows = append(tbl.rows, []string{names[i]})
			}

			return writeOutput(cmd.OutOrStdout(), viper.GetString("output"), names, tbl)
		},
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
