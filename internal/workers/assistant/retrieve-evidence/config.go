// internal/workers/assistant/retrieve-evidence/config.go
package retrieveevidence

import "time"

// Config for the retrieval stage. The broadened documentation retry uses the
// engine's own k.
type Config struct {
	TopK     int
	CacheTTL time.Duration
	Timeout  time.Duration
}

func LoadConfig() *Config {
	return &Config{
		TopK:    5,
		Timeout: 30 * time.Second,
	}
}
