// Package config loads fiberd.yaml, the process's ambient configuration:
// scheduler sizing, the RPC server's listen address and processor pool
// size, and log level. There is no persisted runtime state (spec.md §6);
// this is startup configuration only.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SchedulerConfig sizes the fiber scheduler (spec.md §4.2, §4.3).
type SchedulerConfig struct {
	WorkerPoolSize   int `yaml:"worker_pool_size"`
	DefaultStackSize int `yaml:"default_stack_size"`
	// NameResolutionTimeoutMS bounds how long a worker-pool-offloaded
	// Dial may spend resolving and connecting before it's abandoned
	// (spec.md §4.2: the scheduler thread must stay isolated from
	// synchronous name resolution, but the offloaded call itself still
	// needs a bound). Zero means no bound.
	NameResolutionTimeoutMS int `yaml:"name_resolution_timeout_ms"`
}

// DialTimeout returns the configured name-resolution/connect bound as a
// time.Duration, for passing to netio.Dial.
func (c SchedulerConfig) DialTimeout() time.Duration {
	return time.Duration(c.NameResolutionTimeoutMS) * time.Millisecond
}

// RPCConfig sizes the RPC server (spec.md §4.6).
type RPCConfig struct {
	ListenAddr        string `yaml:"listen_addr"`
	ProcessorPoolSize int    `yaml:"processor_pool_size"`
}

// Config is the full process configuration, loaded from a YAML file.
type Config struct {
	Scheduler SchedulerConfig `yaml:"scheduler"`
	RPC       RPCConfig       `yaml:"rpc"`
	LogLevel  string          `yaml:"log_level"`
}

// Default returns a Config with sensible defaults applied.
func Default() *Config {
	return &Config{
		Scheduler: SchedulerConfig{
			WorkerPoolSize:          DefaultWorkerPoolSize,
			DefaultStackSize:        DefaultStackSize,
			NameResolutionTimeoutMS: DefaultNameResolutionTimeoutMS,
		},
		RPC: RPCConfig{
			ListenAddr:        DefaultListenAddr,
			ProcessorPoolSize: DefaultProcessorPoolSize,
		},
		LogLevel: DefaultLogLevel,
	}
}

// Load reads and validates configuration from path. A missing file is
// not an error: it yields the default configuration.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
