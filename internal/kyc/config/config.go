// Package config holds the settings of the mock identity provider.
package config

import (
	"errors"
	"flag"
	"io/fs"
	"os"

	"github.com/joho/godotenv"

	"github.com/flexrent/flexrent/internal/flagx"
)

type Config struct {
	EndpointAddr  string
	AllowedOrigin string
	LogLevel      string
}

func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3001"
	c.AllowedOrigin = "http://localhost:3000"
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then KYC_ADDR / KYC_ALLOWED_ORIGIN /
// LOG_LEVEL from the environment (or a dotenv file), then -a / -o / -log.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

func parseEnv(config *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v := os.Getenv("KYC_ADDR"); v != "" {
		config.EndpointAddr = v
	}
	if v := os.Getenv("KYC_ALLOWED_ORIGIN"); v != "" {
		config.AllowedOrigin = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.LogLevel = v
	}
}

func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-o", "-log"})

	fs := flag.NewFlagSet("kyc", flag.ContinueOnError)
	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to listen on")
	fs.StringVar(&config.AllowedOrigin, "o", config.AllowedOrigin, "allowed CORS origin")
	fs.StringVar(&config.LogLevel, "log", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
