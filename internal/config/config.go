package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds the CLI/client settings.
type Config struct {
	APIBaseURL  string        `env:"BOXCTL_API_URL,     default=http://localhost:3000"`
	Timeout     time.Duration `env:"BOXCTL_TIMEOUT,     default=15s"`
	LogLevel    string        `env:"BOXCTL_LOG_LEVEL,   default=info"`
	LogPretty   bool          `env:"BOXCTL_LOG_PRETTY,  default=true"`
	SessionFile string        `env:"BOXCTL_SESSION_FILE"`
}

// StubConfig holds the settings for the local stub backend.
type StubConfig struct {
	Port          string `env:"BOXSTUB_PORT,           default=3000"`
	JWTSecret     string `env:"BOXSTUB_JWT_SECRET,     default=boxstub-dev-secret"`
	BoxCount      int    `env:"BOXSTUB_BOX_COUNT,      default=30"`
	AdminUsername string `env:"BOXSTUB_ADMIN_USERNAME, default=admin"`
	AdminPassword string `env:"BOXSTUB_ADMIN_PASSWORD, default=admin"`
	LogLevel      string `env:"BOXSTUB_LOG_LEVEL,      default=info"`
}

// Load reads client configuration from environment variables.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}

// LoadStub reads stub-backend configuration from environment variables.
func LoadStub() *StubConfig {
	var cfg StubConfig
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
