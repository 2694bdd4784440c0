package notifysuggestedemployees

import "time"

type Config struct {
	Timeout      time.Duration
	EmailEnabled bool
	SMSEnabled   bool
	// SMSPriorityThreshold is the lowest request priority that also triggers SMS.
	SMSPriorityThreshold string
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:              30 * time.Second,
		EmailEnabled:         true,
		SMSEnabled:           false,
		SMSPriorityThreshold: "high",
	}
}
