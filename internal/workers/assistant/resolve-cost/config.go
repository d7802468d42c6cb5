// internal/workers/assistant/resolve-cost/config.go
package resolvecost

import "time"

type Config struct {
	ReferenceYear int
	Timeout       time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ReferenceYear: 2022,
		Timeout:       10 * time.Second,
	}
}
