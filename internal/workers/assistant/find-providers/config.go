// internal/workers/assistant/find-providers/config.go
package findproviders

import "time"

type Config struct {
	Limit   int
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Limit:   10,
		Timeout: 10 * time.Second,
	}
}
