// internal/workers/matching/generate-workflow/config.go
package generateworkflow

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 30 * time.Second,
	}
}
