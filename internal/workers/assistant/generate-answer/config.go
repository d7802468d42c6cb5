// internal/workers/assistant/generate-answer/config.go
package generateanswer

import "time"

type Config struct {
	ContextChars int
	Timeout      time.Duration
}

func LoadConfig() *Config {
	return &Config{
		ContextChars: 1500,
		Timeout:      60 * time.Second,
	}
}
