package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

// EnvPath names the environment variable holding the config file path.
const EnvPath = "LIGHTTEST_CONFIG"

type SerialConfig struct {
	Port string
	Baud int
}

type ViewerConfig struct {
	Addr string
}

type Config struct {
	Title         string
	Width         int
	Height        int
	FrameInterval time.Duration `yaml:"frame_interval"`
	Snapshot      string
	LogLevel      string `yaml:"log_level"`
	Serial        SerialConfig
	Viewer        ViewerConfig
}

func Default() Config {
	return Config{
		Title:    "USC Lights",
		Width:    800,
		Height:   600,
		LogLevel: "info",
		Serial:   SerialConfig{Baud: 19200},
	}
}

// Load reads the file at path over the defaults.
func Load(path string) (Config, error) {
	c := Default()
	yamlFile, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("could not open config file: %w", err)
	}
	if err = yaml.UnmarshalStrict(yamlFile, &c); err != nil {
		return c, fmt.Errorf("could not parse config file: %w", err)
	}
	return c, c.validate()
}

// FromEnv loads the file named by EnvPath, or returns the defaults when the
// variable is unset.
func FromEnv() (Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

func (c Config) Level() slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid window size %dx%d", c.Width, c.Height)
	}
	if c.FrameInterval < 0 {
		return fmt.Errorf("negative frame_interval %v", c.FrameInterval)
	}
	if c.Serial.Port != "" && c.Serial.Baud <= 0 {
		return fmt.Errorf("invalid serial baud rate %d", c.Serial.Baud)
	}
	return nil
}
