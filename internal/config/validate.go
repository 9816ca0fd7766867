package config

import (
	"errors"
	"fmt"
)

// ValidationError describes one invalid config field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config.%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Scheduler.WorkerPoolSize < 1 {
		errs = append(errs, &ValidationError{
			Field:   "scheduler.worker_pool_size",
			Value:   cfg.Scheduler.WorkerPoolSize,
			Message: "must be at least 1",
		})
	}

	if cfg.Scheduler.DefaultStackSize < 4096 {
		errs = append(errs, &ValidationError{
			Field:   "scheduler.default_stack_size",
			Value:   cfg.Scheduler.DefaultStackSize,
			Message: "must be at least 4096 bytes",
		})
	}

	if cfg.Scheduler.NameResolutionTimeoutMS < 0 {
		errs = append(errs, &ValidationError{
			Field:   "scheduler.name_resolution_timeout_ms",
			Value:   cfg.Scheduler.NameResolutionTimeoutMS,
			Message: "must not be negative",
		})
	}

	if cfg.RPC.ListenAddr == "" {
		errs = append(errs, &ValidationError{
			Field:   "rpc.listen_addr",
			Value:   cfg.RPC.ListenAddr,
			Message: "must not be empty",
		})
	}

	if cfg.RPC.ProcessorPoolSize < 1 {
		errs = append(errs, &ValidationError{
			Field:   "rpc.processor_pool_size",
			Value:   cfg.RPC.ProcessorPoolSize,
			Message: "must be at least 1",
		})
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Value:   cfg.LogLevel,
			Message: "must be one of: debug, info, warn, error",
		})
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
