package main

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"safaribook/internal/modules/notification"
	"safaribook/internal/pkg/logger"
)

type countingTransport struct {
	mu   sync.Mutex
	sent []notification.Message
}

func (t *countingTransport) Send(_ context.Context, msg notification.Message) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent = append(t.sent, msg)
	return nil
}

// drainingServer finishes one in-flight request during Shutdown.
type drainingServer struct {
	stopped    chan struct{}
	onShutdown func()
	once       sync.Once
}

func (s *drainingServer) ListenAndServe() error {
	<-s.stopped
	return http.ErrServerClosed
}

func (s *drainingServer) Shutdown(context.Context) error {
	s.onShutdown()
	s.once.Do(func() { close(s.stopped) })
	return nil
}

func TestServe_MailQueuedDuringShutdownIsDelivered(t *testing.T) {
	transport := &countingTransport{}
	outbox := notification.NewOutbox(transport, notification.OutboxConfig{
		QueueSize:   4,
		Workers:     1,
		MaxAttempts: 1,
		RetryDelay:  time.Millisecond,
	}, logger.Discard())

	var enqueueErr error
	srv := &drainingServer{
		stopped: make(chan struct{}),
		onShutdown: func() {
			enqueueErr = outbox.Enqueue(notification.Message{Kind: notification.KindBookingReceived, To: "asha@example.com"})
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, serve(ctx, srv, outbox, logger.Discard()))
	assert.NoError(t, enqueueErr)
	assert.Len(t, transport.sent, 1)
	assert.Equal(t, int64(1), outbox.Stats().Sent)
}
