package config

import "github.com/agbru/mcspeed/internal/sysmon"

// Thread limit resolution chain (highest priority first):
//   1. CLI flag (--max-threads)
//   2. Environment variable (MCSPEED_MAX_THREADS)
//   3. YAML run file (max_threads)
//   4. Hardware threads available to the process (this file)

// ApplyAdaptiveDefaults fills settings left at their zero default from the
// host's characteristics. MaxThreads becomes the number of hardware threads
// this process may run on; user-specified values are preserved.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	return applyAdaptiveDefaults(cfg, sysmon.AvailableThreads)
}

func applyAdaptiveDefaults(cfg AppConfig, available func() int) AppConfig {
	if cfg.MaxThreads == 0 {
		cfg.MaxThreads = max(available(), 1)
	}
	return cfg
}
