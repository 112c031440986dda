package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvBotToken     = "TGBLOCKS_BOT_TOKEN"
	EnvSocket       = "TGBLOCKS_SOCKET"
	EnvAPIURL       = "TGBLOCKS_API_URL"
	EnvPollInterval = "TGBLOCKS_POLL_INTERVAL"
	EnvWatch        = "TGBLOCKS_WATCH"
)

// Defaults.
const (
	DefaultAPIURL       = "https://api.telegram.org"
	DefaultPollInterval = 2 * time.Second
	defaultSocketDir    = ".tgblocks"
	defaultSocketName   = "tgblocks.sock"
)

// Config is the runtime configuration of the daemon and CLI.
type Config struct {
	BotToken     string
	SocketPath   string
	APIURL       string
	PollInterval time.Duration
	// Watch lists strings registered as watched messages at startup.
	Watch []string
	// EnvFile is the .env file the values were read from, "" if none.
	EnvFile string
}

// Load reads configuration from the process environment, after loading
// envFile if it exists. Variables already set in the environment win over
// the file. An empty envFile skips the file.
func Load(envFile string) (*Config, error) {
	loaded := ""
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("load env file: %w", err)
			}
		} else {
			loaded = envFile
		}
	}

	cfg := Config{
		BotToken: os.Getenv(EnvBotToken),
		APIURL:   os.Getenv(EnvAPIURL),
		Watch:    SplitWatch(os.Getenv(EnvWatch)),
		EnvFile:  loaded,
	}
	cfg.SocketPath = os.Getenv(EnvSocket)

	if v := os.Getenv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", EnvPollInterval, err)
		}
		cfg.PollInterval = d
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.PollInterval < 0 {
		return fmt.Errorf("%s must not be negative", EnvPollInterval)
	}
	if cfg.APIURL != "" && !strings.HasPrefix(cfg.APIURL, "http://") && !strings.HasPrefix(cfg.APIURL, "https://") {
		return fmt.Errorf("%s must be an http(s) URL, got %q", EnvAPIURL, cfg.APIURL)
	}
	return nil
}

func applyDefaults(cfg *Config) error {
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if cfg.PollInterval == 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SocketPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SocketPath = filepath.Join(home, defaultSocketDir, defaultSocketName)
	}
	return nil
}

// SplitWatch splits a "|"-separated list of watched strings. Empty entries are
// dropped; duplicates are kept.
func SplitWatch(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, "|") {
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}
