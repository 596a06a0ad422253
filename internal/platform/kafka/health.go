package kafka

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// HealthChecker reports whether at least one seed broker accepts TCP connections.
type HealthChecker struct {
	brokers []string
	timeout time.Duration
}

func NewHealthChecker(brokers string) *HealthChecker {
	var list []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			list = append(list, b)
		}
	}
	return &HealthChecker{brokers: list, timeout: 3 * time.Second}
}

func (h *HealthChecker) Check(ctx context.Context) error {
	if len(h.brokers) == 0 {
		return errors.New("kafka brokers not configured")
	}

	dialer := net.Dialer{Timeout: h.timeout}
	var lastErr error
	for _, broker := range h.brokers {
		conn, err := dialer.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		_ = conn.Close()
		return nil
	}
	return fmt.Errorf("no kafka brokers reachable: %w", lastErr)
}

func (h *HealthChecker) Name() string {
	return "kafka"
}
