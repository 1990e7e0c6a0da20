package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fivetwenty-io/proposify/internal/constants"
	"github.com/fivetwenty-io/proposify/internal/server"
	"github.com/fivetwenty-io/proposify/internal/store"
	"github.com/fivetwenty-io/proposify/internal/webhook"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type serveOptions struct {
	addr        string
	metricsAddr string
	path        string
	natsURL     string
	natsSubject string
	register    bool
}

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	flags := &webhookFlags{}
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook receiver",
		Long: `Receive Proposify webhook deliveries, verify their signature and forward
accepted events to stdout as JSON lines or to a NATS subject.

With --register the webhook is registered on start and removed on shutdown.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags, opts)
		},
	}

	flags.register(cmd)

	cmd.Flags().StringVar(&opts.addr, "addr", constants.DefaultListenAddr, "listen address for deliveries")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", constants.DefaultMetricsAddr, "listen address for metrics, empty to disable")
	cmd.Flags().StringVar(&opts.path, "path", constants.DefaultWebhookPath, "delivery path")
	cmd.Flags().StringVar(&opts.natsURL, "nats-url", "", "publish events to this NATS server instead of stdout")
	cmd.Flags().StringVar(&opts.natsSubject, "nats-subject", constants.DefaultNATSSubject, "NATS subject for events")
	cmd.Flags().BoolVar(&opts.register, "register", false, "register the webhook while serving")

	return cmd
}

func runServe(cmd *cobra.Command, flags *webhookFlags, opts *serveOptions) error {
	zl, err := newZapLogger(viper.GetBool("verbose"))
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	log := zapr.NewLogger(zl)
	defer log.Info("server exiting")

	logger := NewLogger(zl)

	resolved, err := flags.resolve()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var client proposify.RequestClient
	if opts.register {
		if resolved.url == "" {
			return constants.ErrNoWebhookURL
		}

		c, err := createClient(ctx, loadConfig(), viper.GetBool("verbose"), logger)
		if err != nil {
			return err
		}

		client = c
	}

	manager := resolved.manager(client, logger)

	sink, closeSink, err := newSink(opts)
	if err != nil {
		return err
	}
	defer closeSink()

	if opts.register {
		data, err := store.Open(resolved.stateFile, resolved.url, resolved.event)
		if err != nil {
			return err
		}

		if err := registerWebhook(ctx, manager, data); err != nil {
			return err
		}

		defer unregisterWebhook(log, manager, data)
	}

	srv := server.New(log, manager, sink, server.NewMetrics(), opts.path)

	log.Info("serving webhooks", "addr", opts.addr, "path", opts.path, "event", resolved.event)

	return server.Run(ctx, log, server.Addrs{API: opts.addr, Metrics: opts.metricsAddr}, srv)
}

// newSink picks the NATS sink when a server URL is configured and stdout
// otherwise.
func newSink(opts *serveOptions) (server.EventSink, func(), error) {
	if opts.natsURL == "" {
		return server.NewWriterSink(os.Stdout), func() {}, nil
	}

	nc, err := nats.Connect(opts.natsURL, nats.Name("proposify-webhooks"))
	if err != nil {
		return nil, nil, fmt.Errorf("could not connect to nats: %w", err)
	}

	return server.NewNATSSink(nc, opts.natsSubject), func() { _ = nc.Drain() }, nil
}

func registerWebhook(ctx context.Context, manager *webhook.Manager, data *store.FileStaticData) error {
	if !manager.CheckExists(ctx, data) {
		ok, err := manager.Create(ctx, data)
		if err != nil {
			return err
		}

		if !ok {
			return proposify.ErrWebhookNotRegistered
		}
	}

	return data.Flush()
}

func unregisterWebhook(log logr.Logger, manager *webhook.Manager, data *store.FileStaticData) {
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShortHTTPTimeout)
	defer cancel()

	manager.Delete(ctx, data)

	if err := data.Flush(); err != nil {
		log.Error(err, "could not save webhook state")
	}
}
