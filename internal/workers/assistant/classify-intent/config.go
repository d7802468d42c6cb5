// internal/workers/assistant/classify-intent/config.go
package classifyintent

import "time"

type Config struct {
	DefaultJurisdiction string
	Timeout             time.Duration
}

func LoadConfig() *Config {
	return &Config{
		DefaultJurisdiction: "PA",
		Timeout:             5 * time.Second,
	}
}
