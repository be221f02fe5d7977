// Package config loads environment configuration for padremote.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/frudas24/padremote/internal/gesture"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const defaultDataDir = "./data"

// Config holds runtime configuration values. SENSITIVITY overrides the
// profile multiplier when > 0. MAX_CLIENTS caps concurrent sessions; 0 means
// unlimited.
type Config struct {
	ListenAddr     string        `envconfig:"LISTEN_ADDR" default:"0.0.0.0:8787"`
	DataDir        string        `envconfig:"DATA_DIR" default:"./data"`
	ProfilePath    string        `envconfig:"PROFILE_PATH"`
	GestureProfile string        `envconfig:"GESTURE_PROFILE" default:"standard"`
	Sensitivity    float64       `envconfig:"SENSITIVITY" default:"0"`
	MaxClients     int           `envconfig:"MAX_CLIENTS" default:"4"`
	Executor       string        `envconfig:"EXECUTOR" default:"auto"`
	WebRTCEnabled  bool          `envconfig:"WEBRTC_ENABLED" default:"true"`
	STUNURLs       []string      `envconfig:"STUN_URLS"`
	ShowQR         bool          `envconfig:"SHOW_QR" default:"true"`
	PingInterval   time.Duration `envconfig:"PING_INTERVAL" default:"20s"`

	// Profiles is the builtin profile set with file overrides applied.
	Profiles map[string]gesture.Profile `ignored:"true"`
}

// profileFile is the layout of the optional profile override file.
type profileFile struct {
	Profiles map[string]yaml.Node `yaml:"profiles"`
}

// Load reads configuration from <DATA_DIR>/.env, environment variables and
// the gesture profile file. Values already in the environment win over .env.
func Load() (Config, error) {
	dataDir := strings.TrimSpace(os.Getenv("DATA_DIR"))
	if dataDir == "" {
		dataDir = defaultDataDir
	}
	if err := loadEnvFile(filepath.Join(dataDir, ".env")); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}
	cfg.normalize()
	if cfg.ProfilePath == "" {
		cfg.ProfilePath = filepath.Join(cfg.DataDir, "profiles.yaml")
	}

	profiles, err := LoadProfiles(cfg.ProfilePath)
	if err != nil {
		return Config{}, err
	}
	cfg.Profiles = profiles

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// normalize trims free-form values and lowercases the executor kind.
func (c *Config) normalize() {
	c.Executor = strings.ToLower(strings.TrimSpace(c.Executor))
	c.GestureProfile = strings.TrimSpace(c.GestureProfile)
}

// Validate checks value ranges. Errors name the offending key.
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return fmt.Errorf("LISTEN_ADDR must not be empty")
	}
	if c.MaxClients < 0 {
		return fmt.Errorf("MAX_CLIENTS must be >= 0")
	}
	if c.Sensitivity < 0 {
		return fmt.Errorf("SENSITIVITY must be >= 0")
	}
	if c.PingInterval <= 0 {
		return fmt.Errorf("PING_INTERVAL must be > 0")
	}
	switch c.Executor {
	case "auto", "native", "log":
	default:
		return fmt.Errorf("EXECUTOR must be auto, native or log")
	}
	if _, ok := c.Profiles[c.GestureProfile]; !ok {
		return fmt.Errorf("GESTURE_PROFILE %q is not defined", c.GestureProfile)
	}
	return nil
}

// LoadProfiles returns the builtin profiles with overrides from path applied.
// A missing file yields the builtin set. Each override is decoded on top of
// the builtin profile of the same name, or on top of the standard profile
// for new names, so a file only needs the fields it changes.
func LoadProfiles(path string) (map[string]gesture.Profile, error) {
	profiles := gesture.Builtin()
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return profiles, nil
		}
		return nil, fmt.Errorf("read profiles: %w", err)
	}

	var file profileFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("PROFILE_PATH %s: %w", path, err)
	}
	for name, node := range file.Profiles {
		base, ok := profiles[name]
		if !ok {
			base = gesture.Standard()
		}
		if err := node.Decode(&base); err != nil {
			return nil, fmt.Errorf("PROFILE_PATH %s: profile %q: %w", path, name, err)
		}
		base.Name = name
		if err := base.Validate(); err != nil {
			return nil, fmt.Errorf("PROFILE_PATH %s: %w", path, err)
		}
		profiles[name] = base
	}
	return profiles, nil
}

// MarshalProfiles renders a profile set in the override file layout.
func MarshalProfiles(profiles map[string]gesture.Profile) ([]byte, error) {
	out := struct {
		Profiles map[string]gesture.Profile `yaml:"profiles"`
	}{Profiles: profiles}
	return yaml.Marshal(out)
}

// loadEnvFile loads key/value pairs from a .env file without overriding existing env vars.
func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}
