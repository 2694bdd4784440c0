// internal/common/database/health.go
package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is implemented by every backing store client.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings every store and reports the first failure by name.
func CheckAll(ctx context.Context, timeout time.Duration, stores ...Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for _, s := range stores {
		if s == nil {
			continue
		}
		if err := s.Ping(ctx); err != nil {
			return fmt.Errorf("%s not ready: %w", s.Name(), err)
		}
	}
	return nil
}
