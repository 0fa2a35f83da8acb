// Package config loads the process-wide, read-only configuration record
// from a YAML document plus environment-variable overrides.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/ardhipoetra/faasm/errors"
)

// Config is the configuration record enumerated in the governing document's
// external-interfaces section: the shared root for path masking, the
// stdout-capture switch, the object-store and queue endpoints, and the
// ambient knobs (executor count, memory limit, log level) needed to run a
// real process rather than a single call.
type Config struct {
	SharedRoot    string `yaml:"sharedRoot"`
	CaptureStdout bool   `yaml:"captureStdout"`

	ObjectStoreEndpoint string `yaml:"objectStoreEndpoint"`
	ObjectStoreBucket   string `yaml:"objectStoreBucket"`
	ObjectStoreUser     string `yaml:"objectStoreUser"`
	ObjectStorePassword string `yaml:"objectStorePassword"`

	QueueEndpoint string `yaml:"queueEndpoint"`

	Executors        int    `yaml:"executors"`
	MemoryLimitPages uint32 `yaml:"memoryLimitPages"`
	LogLevel         string `yaml:"logLevel"`
}

// defaults matches what a bare-bones local run needs: a throwaway shared
// root, capture off, one executor, wazero's usual 4GiB ceiling, info logs.
func defaults() Config {
	return Config{
		SharedRoot:       "/tmp/faasm",
		CaptureStdout:    false,
		Executors:        1,
		MemoryLimitPages: 65536,
		LogLevel:         "info",
	}
}

// Load reads path (if non-empty and it exists) over the defaults, then
// applies environment-variable overrides, then validates the result.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, errors.IO(errors.PhaseConfig, "read "+path, err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "parse "+path)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FAASM_SHARED_ROOT"); v != "" {
		cfg.SharedRoot = v
	}
	if v := os.Getenv("FAASM_CAPTURE_STDOUT"); v != "" {
		cfg.CaptureStdout = v == "1" || v == "true"
	}
	if v := os.Getenv("FAASM_OBJECT_STORE_ENDPOINT"); v != "" {
		cfg.ObjectStoreEndpoint = v
	}
	if v := os.Getenv("FAASM_OBJECT_STORE_BUCKET"); v != "" {
		cfg.ObjectStoreBucket = v
	}
	if v := os.Getenv("FAASM_OBJECT_STORE_USER"); v != "" {
		cfg.ObjectStoreUser = v
	}
	if v := os.Getenv("FAASM_OBJECT_STORE_PASSWORD"); v != "" {
		cfg.ObjectStorePassword = v
	}
	if v := os.Getenv("FAASM_QUEUE_ENDPOINT"); v != "" {
		cfg.QueueEndpoint = v
	}
	if v := os.Getenv("FAASM_EXECUTORS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Executors = n
		}
	}
	if v := os.Getenv("FAASM_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func (c Config) validate() error {
	if c.SharedRoot == "" {
		return errors.InvalidInput(errors.PhaseConfig, "sharedRoot must be set")
	}
	if c.Executors < 1 {
		return errors.InvalidInput(errors.PhaseConfig, "executors must be >= 1")
	}
	if (c.ObjectStoreEndpoint == "") != (c.ObjectStoreBucket == "") {
		return errors.InvalidInput(errors.PhaseConfig, "objectStoreEndpoint and objectStoreBucket must be set together")
	}
	return nil
}

// ObjectStoreConfigured reports whether enough object-store fields are set
// to build a client; a partially-configured set is a loading error, not a
// silent no-op, so callers should check this and fail fast rather than
// attempt a best-effort client.
func (c Config) ObjectStoreConfigured() bool {
	return c.ObjectStoreEndpoint != "" && c.ObjectStoreBucket != ""
}
