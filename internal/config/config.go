package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds all mailsift configuration.
type Config struct {
	IMAP     IMAPConfig     `toml:"imap"`
	Sync     SyncConfig     `toml:"sync"`
	Notify   NotifyConfig   `toml:"notify"`
	Accounts AccountsConfig `toml:"accounts"`
}

// IMAPConfig holds the remote mailbox connection settings.
type IMAPConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
	TLS  bool   `toml:"tls"`
}

// SyncConfig holds email synchronization settings.
type SyncConfig struct {
	Folders      []string `toml:"folders"`
	DraftsFolder string   `toml:"drafts_folder"`
	Interval     string   `toml:"interval"`
}

// NotifyConfig holds desktop notification settings.
type NotifyConfig struct {
	Enabled bool `toml:"enabled"`
	Sound   bool `toml:"sound"`
}

// AccountsConfig holds account selection settings.
type AccountsConfig struct {
	Default string `toml:"default"`
}

func defaults() Config {
	return Config{
		IMAP: IMAPConfig{
			Port: 993,
			TLS:  true,
		},
		Sync: SyncConfig{
			Folders:      []string{"INBOX"},
			DraftsFolder: "Drafts",
			Interval:     "5m",
		},
		Notify: NotifyConfig{
			Enabled: true,
		},
	}
}

// Load reads config from path. If path is empty, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

// ConfigDir returns the mailsift config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailsift")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "mailsift")
}

// DataDir returns the mailsift data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "mailsift")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "mailsift")
}
