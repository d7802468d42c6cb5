// internal/common/camunda/client.go
package camunda

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"childcare-assistant/internal/common/config"
	apperrors "childcare-assistant/internal/common/errors"
	"childcare-assistant/internal/common/logger"
)

// RetryConfig bounds the connection attempts made at startup.
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
}

var DefaultRetryConfig = RetryConfig{
	MaxRetries: 10,
	BaseDelay:  2 * time.Second,
	MaxDelay:   30 * time.Second,
}

// Dialer creates a Zeebe client. zbc.NewClient in production.
type Dialer func(cfg *zbc.ClientConfig) (zbc.Client, error)

// Connect dials the gateway and waits for a topology response, retrying
// transient failures with exponential backoff.
func Connect(ctx context.Context, cfg config.CamundaConfig, retry RetryConfig, dial Dialer, log logger.Logger) (zbc.Client, error) {
	if dial == nil {
		dial = zbc.NewClient
	}
	requestTimeout := config.GetDuration(cfg.RequestTimeout)

	var client zbc.Client
	err := RetryWithBackoff(ctx, retry, log, "zeebe connection", func() error {
		c, err := dial(&zbc.ClientConfig{
			GatewayAddress:         cfg.BrokerAddress,
			UsePlaintextConnection: true,
		})
		if err != nil {
			return err
		}
		if err := HealthCheck(ctx, c, requestTimeout); err != nil {
			_ = c.Close()
			return err
		}
		client = c
		return nil
	})
	if err != nil {
		return nil, apperrors.NewUpstreamFailureError("zeebe", err)
	}
	return client, nil
}

// HealthCheck asks the broker for its topology.
func HealthCheck(ctx context.Context, client zbc.Client, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	if _, err := client.NewTopologyCommand().Send(ctx); err != nil {
		return fmt.Errorf("zeebe health check failed: %w", err)
	}
	return nil
}

// RetryWithBackoff runs operation until it succeeds, a non-transient error
// occurs, the attempts run out, or ctx ends.
func RetryWithBackoff(ctx context.Context, retry RetryConfig, log logger.Logger, name string, operation func() error) error {
	if retry.MaxRetries <= 0 {
		retry.MaxRetries = 1
	}
	delay := retry.BaseDelay

	var err error
	for attempt := 1; attempt <= retry.MaxRetries; attempt++ {
		if err = operation(); err == nil {
			return nil
		}
		if !IsTransient(err) || attempt == retry.MaxRetries {
			break
		}

		log.Warn(fmt.Sprintf("%s failed, retrying", name), map[string]interface{}{
			"error":       err,
			"attempt":     attempt,
			"maxRetries":  retry.MaxRetries,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
		}
		delay *= 2
		if retry.MaxDelay > 0 && delay > retry.MaxDelay {
			delay = retry.MaxDelay
		}
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

var transientPhrases = []string{
	"connection refused",
	"connection reset",
	"timeout",
	"deadline exceeded",
	"unavailable",
	"unreachable",
	"broken pipe",
	"no such host",
}

// IsTransient reports whether err looks like a network blip worth retrying.
func IsTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return true
		}
	}
	return false
}
