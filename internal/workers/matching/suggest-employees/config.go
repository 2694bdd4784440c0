// internal/workers/matching/suggest-employees/config.go
package suggestemployees

import "time"

type Config struct {
	Timeout time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
