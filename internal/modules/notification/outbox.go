package notification

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type OutboxConfig struct {
	QueueSize   int
	Workers     int
	MaxAttempts int
	RetryDelay  time.Duration
}

func (c OutboxConfig) withDefaults() OutboxConfig {
	if c.QueueSize <= 0 {
		c.QueueSize = 256
	}
	if c.Workers <= 0 {
		c.Workers = 2
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.RetryDelay < 0 {
		c.RetryDelay = 0
	}
	return c
}

type Stats struct {
	Queued  int   `json:"queued"`
	Sent    int64 `json:"sent"`
	Failed  int64 `json:"failed"`
	Dropped int64 `json:"dropped"`
}

// Outbox is a bounded queue of emails drained by a fixed set of workers.
// Each message is tried MaxAttempts times with a constant delay; a message
// that still fails is counted and logged, never returned to the caller.
type Outbox struct {
	transport Transport
	cfg       OutboxConfig
	log       logrus.FieldLogger

	mu     sync.RWMutex
	closed bool
	queue  chan Message

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

func NewOutbox(transport Transport, cfg OutboxConfig, log logrus.FieldLogger) *Outbox {
	cfg = cfg.withDefaults()
	return &Outbox{
		transport: transport,
		cfg:       cfg,
		log:       log,
		queue:     make(chan Message, cfg.QueueSize),
	}
}

// Enqueue never blocks. A full queue drops the message.
func (o *Outbox) Enqueue(msg Message) error {
	o.mu.RLock()
	defer o.mu.RUnlock()

	if o.closed {
		return ErrOutboxClosed
	}
	select {
	case o.queue <- msg:
		return nil
	default:
		o.dropped.Add(1)
		o.log.WithFields(logrus.Fields{"kind": msg.Kind, "to": msg.To}).Warn("email dropped: queue full")
		return ErrQueueFull
	}
}

// Run delivers messages until ctx is cancelled, then stops accepting new
// ones and returns once everything already queued has been handled.
func (o *Outbox) Run(ctx context.Context) error {
	sendCtx := context.WithoutCancel(ctx)

	var g errgroup.Group
	for i := 0; i < o.cfg.Workers; i++ {
		worker := i
		g.Go(func() error {
			for msg := range o.queue {
				o.deliver(sendCtx, worker, msg)
			}
			return nil
		})
	}

	<-ctx.Done()
	o.close()
	o.log.WithField("pending", len(o.queue)).Info("outbox draining")

	err := g.Wait()
	o.log.WithFields(logrus.Fields{
		"sent":    o.sent.Load(),
		"failed":  o.failed.Load(),
		"dropped": o.dropped.Load(),
	}).Info("outbox stopped")
	return err
}

func (o *Outbox) Stats() Stats {
	return Stats{
		Queued:  len(o.queue),
		Sent:    o.sent.Load(),
		Failed:  o.failed.Load(),
		Dropped: o.dropped.Load(),
	}
}

func (o *Outbox) close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.closed {
		o.closed = true
		close(o.queue)
	}
}

func (o *Outbox) deliver(ctx context.Context, worker int, msg Message) {
	entry := o.log.WithFields(logrus.Fields{"kind": msg.Kind, "to": msg.To, "worker": worker})

	attempt := 0
	op := func() error {
		attempt++
		return o.transport.Send(ctx, msg)
	}
	policy := backoff.WithMaxRetries(backoff.NewConstantBackOff(o.cfg.RetryDelay), uint64(o.cfg.MaxAttempts-1))
	notify := func(err error, wait time.Duration) {
		entry.WithError(err).WithField("attempt", attempt).Debugf("email send failed, retrying in %s", wait)
	}

	if err := backoff.RetryNotify(op, backoff.WithContext(policy, ctx), notify); err != nil {
		o.failed.Add(1)
		entry.WithError(err).WithField("attempts", attempt).Error("email delivery failed")
		return
	}
	o.sent.Add(1)
	entry.Debug("email sent")
}
