// Package config resolves zebra settings from defaults, an optional YAML file and the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the CLI and the worker.
type Config struct {
	Threads     int      `yaml:"threads"`
	Extension   string   `yaml:"extension"`
	Quiet       bool     `yaml:"quiet"`
	LogLevel    string   `yaml:"log_level"`
	MetricsAddr string   `yaml:"metrics_addr"`
	ScratchDir  string   `yaml:"scratch_dir"`
	Temporal    Temporal `yaml:"temporal"`
}

// Temporal locates the Temporal frontend and the queue zebra workers poll.
type Temporal struct {
	HostPort  string `yaml:"host_port"`
	Namespace string `yaml:"namespace"`
	TaskQueue string `yaml:"task_queue"`
}

// Default returns a Config with defaults.
func Default() Config {
	return Config{
		Threads:     1,
		Extension:   "stripe",
		LogLevel:    "warn",
		MetricsAddr: ":9090",
		ScratchDir:  "/var/zebra",
		Temporal: Temporal{
			HostPort:  "localhost:7233",
			Namespace: "default",
			TaskQueue: "zebra",
		},
	}
}

// LoadFromFile overlays the YAML file at path on Default. Keys absent from the file keep their defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config file: %w", err)
	}
	if cfg.Threads < 1 {
		return Config{}, fmt.Errorf("parse config file: threads must be at least 1, got %d", cfg.Threads)
	}
	return cfg, nil
}

// Load resolves defaults, then the file at path when path is non-empty, then the environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.LoadFromEnv()
	return cfg, nil
}

// LoadFromEnv overlays environment variables. Unparseable numeric or boolean values are ignored.
func (c *Config) LoadFromEnv() {
	if v := os.Getenv("ZEBRA_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Threads = n
		}
	}
	if v, ok := os.LookupEnv("ZEBRA_EXTENSION"); ok {
		c.Extension = strings.TrimPrefix(v, ".")
	}
	if v := os.Getenv("ZEBRA_QUIET"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Quiet = b
		}
	}
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)
	c.MetricsAddr = getenv("METRICS_ADDR", c.MetricsAddr)
	c.ScratchDir = getenv("ZEBRA_TMP_DIR", c.ScratchDir)
	// Both TEMPORAL_TARGET_HOST and TEMPORAL_ADDRESS are honoured.
	c.Temporal.HostPort = getenv("TEMPORAL_TARGET_HOST", getenv("TEMPORAL_ADDRESS", c.Temporal.HostPort))
	c.Temporal.Namespace = getenv("TEMPORAL_NAMESPACE", c.Temporal.Namespace)
	c.Temporal.TaskQueue = getenv("TEMPORAL_TASK_QUEUE", c.Temporal.TaskQueue)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
