package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Database DatabaseConfig
	User     UserConfig
	Swipe    SwipeConfig
	Verify   VerifyConfig
	Bank     BankConfig
	UI       UIConfig
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string
}

// UserConfig identifies the local profile.
type UserConfig struct {
	ID string
}

// SwipeConfig tunes the deck gesture engine.
type SwipeConfig struct {
	Threshold  float64 `mapstructure:"threshold"`   // commit threshold as a fraction of deck width
	CommitMs   int     `mapstructure:"commit_ms"`   // off-stage slide duration
	SnapMs     int     `mapstructure:"snap_ms"`     // snap-back duration
	StackDepth int     `mapstructure:"stack_depth"` // visible cards including the top one
	Margin     int     `mapstructure:"margin"`      // extra columns past the edge for off-stage
}

// VerifyConfig points at the face-detection/liveness service.
type VerifyConfig struct {
	BaseURL  string `mapstructure:"base_url"`
	TimeoutS int    `mapstructure:"timeout_s"`
}

// BankConfig points at the bank-verification service.
type BankConfig struct {
	BaseURL   string `mapstructure:"base_url"`
	APIKeyEnv string `mapstructure:"api_key_env"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	Accent string
}

// Load reads configuration from file and env. Env var overrides use prefix DUET_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("database.path", filepath.Join(os.Getenv("HOME"), ".local", "share", "duet", "duet.db"))
	v.SetDefault("user.id", "self")
	v.SetDefault("swipe.threshold", 0.25)
	v.SetDefault("swipe.commit_ms", 300)
	v.SetDefault("swipe.snap_ms", 180)
	v.SetDefault("swipe.stack_depth", 3)
	v.SetDefault("swipe.margin", 30)
	v.SetDefault("verify.base_url", "http://localhost:5000")
	v.SetDefault("verify.timeout_s", 10)
	v.SetDefault("bank.base_url", "https://ifsc.razorpay.com")
	v.SetDefault("bank.api_key_env", "DUET_BANK_API_KEY")
	v.SetDefault("ui.accent", "pink")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("DUET_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "duet"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("DUET")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if
// needed. Used by the settings view for non-sensitive preferences; API keys
// stay in env vars or the secrets store.
func Save(cfg Config) error {
	path := os.Getenv("DUET_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "duet", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("database.path", cfg.Database.Path)
	v.Set("user.id", cfg.User.ID)
	v.Set("swipe.threshold", cfg.Swipe.Threshold)
	v.Set("swipe.commit_ms", cfg.Swipe.CommitMs)
	v.Set("swipe.snap_ms", cfg.Swipe.SnapMs)
	v.Set("swipe.stack_depth", cfg.Swipe.StackDepth)
	v.Set("swipe.margin", cfg.Swipe.Margin)
	v.Set("verify.base_url", cfg.Verify.BaseURL)
	v.Set("verify.timeout_s", cfg.Verify.TimeoutS)
	v.Set("bank.base_url", cfg.Bank.BaseURL)
	v.Set("bank.api_key_env", cfg.Bank.APIKeyEnv)
	v.Set("ui.accent", cfg.UI.Accent)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
