package createrequestrecord

import "time"

type Config struct {
	Timeout         time.Duration
	DefaultPriority string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:         10 * time.Second,
		DefaultPriority: "medium",
	}
}
