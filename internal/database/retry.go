package database

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

const (
	DefaultRetryAttempts = 5
	DefaultRetryDelay    = 2 * time.Second

	// admin_shutdown, sent while a serverless Postgres restarts
	pgAdminShutdown = "57P01"
	// query_canceled, raised by statement_timeout
	pgQueryCanceled = "57014"
)

// RetryPolicy is a fixed-count, fixed-delay retry without jitter.
type RetryPolicy struct {
	Attempts int
	Delay    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultRetryAttempts, Delay: DefaultRetryDelay}
}

// Do calls op until it succeeds, returns a non-transient error, or the
// attempts are used up.
func (p RetryPolicy) Do(ctx context.Context, log logrus.FieldLogger, op func() error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var b backoff.BackOff = backoff.NewConstantBackOff(p.Delay)
	b = backoff.WithMaxRetries(b, uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	wrapped := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.WithFields(logrus.Fields{
			"attempt": attempt,
			"max":     attempts,
			"wait":    wait,
		}).WithError(err).Warn("database transient error, retrying")
	}

	err := backoff.RetryNotify(wrapped, b, notify)
	if err != nil && IsTransient(err) {
		log.WithError(err).WithField("attempts", attempt).Error("database error, retries exhausted")
	}
	return err
}

// IsTransient reports whether err looks like a cold-start or network blip.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && (pgErr.Code == pgAdminShutdown || pgErr.Code == pgQueryCanceled) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "fetch failed") ||
		strings.Contains(msg, "connection refused")
}
