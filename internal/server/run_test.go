package server_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/proposify/internal/server"
	"github.com/fivetwenty-io/proposify/internal/webhook"
	"github.com/fivetwenty-io/proposify/pkg/proposify"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer() *server.Server {
	manager := webhook.NewManager(nil, "", proposify.EventProposalSent, "", nil)

	return server.New(logr.Discard(), manager, &MockSink{}, server.NewMetrics(), "")
}

func TestRun_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	err := server.Run(ctx, logr.Discard(), server.Addrs{API: "127.0.0.1:0", Metrics: "127.0.0.1:0"}, newServer())
	require.NoError(t, err)
}

func TestRun_ListenFailure(t *testing.T) {
	t.Parallel()

	err := server.Run(context.Background(), logr.Discard(), server.Addrs{API: "127.0.0.1:not-a-port"}, newServer())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "could not listen for api requests")
}
