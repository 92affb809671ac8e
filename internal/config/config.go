package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config represents the application configuration
type Config struct {
	Server struct {
		Port      int    `koanf:"port"`
		BodyLimit string `koanf:"body_limit"`
	} `koanf:"server"`

	Storage struct {
		Path string `koanf:"path"`
	} `koanf:"storage"`

	Auth struct {
		// SecretKey signs access tokens. PasswordHash is the bcrypt hash of
		// the vault passphrase; when empty the API runs without auth.
		SecretKey    string `koanf:"secret_key"`
		PasswordHash string `koanf:"password_hash"`
		TokenMinutes int    `koanf:"token_minutes"`
	} `koanf:"auth"`

	RateLimit struct {
		RPS   float64 `koanf:"rps"`
		Burst int     `koanf:"burst"`
	} `koanf:"ratelimit"`

	Logging struct {
		Level  string `koanf:"level"`
		Pretty bool   `koanf:"pretty"`
	} `koanf:"logging"`
}

// LoadConfig loads the configuration from a file
func LoadConfig(configPath string) (*Config, error) {
	var k = koanf.New(".")

	// Set up default configuration
	k.Load(confmap.Provider(map[string]interface{}{
		"server.port":        8000,
		"server.body_limit":  "50M",
		"storage.path":       "./storage/memories.db",
		"auth.token_minutes": 30,
		"ratelimit.rps":      20.0,
		"ratelimit.burst":    40,
		"logging.level":      "info",
		"logging.pretty":     false,
	}, "."), nil)

	// Load from TOML file if it exists
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./memories.toml", "$HOME/.memories.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	// Load from environment variables with prefix MEMORIES_. Only the first
	// underscore separates section from key, so MEMORIES_AUTH_TOKEN_MINUTES
	// maps to auth.token_minutes.
	k.Load(env.Provider("MEMORIES_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(
			strings.TrimPrefix(s, "MEMORIES_")), "_", ".", 1)
	}), nil)

	// Unmarshal into Config struct
	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// InitConfig initializes a new configuration file
func InitConfig(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# Memories Configuration

[server]
port = 8000
body_limit = "50M"

[storage]
path = "./storage/memories.db"

[auth]
secret_key = "change-me"
# bcrypt hash of the vault passphrase; leave empty to disable auth
password_hash = ""
token_minutes = 30

[ratelimit]
rps = 20.0
burst = 40

[logging]
level = "info"
pretty = true
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}

// Validate validates the configuration
func Validate(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", config.Server.Port)
	}

	if config.Storage.Path == "" {
		return fmt.Errorf("storage path is required")
	}

	if config.Auth.PasswordHash != "" && config.Auth.SecretKey == "" {
		return fmt.Errorf("auth secret_key is required when password_hash is set")
	}

	if config.Auth.TokenMinutes <= 0 {
		return fmt.Errorf("auth token_minutes must be positive")
	}

	if config.RateLimit.RPS <= 0 || config.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}

	return nil
}
