package config

import "fmt"

// Validate checks the configuration for internally inconsistent or unusable
// values. It is called by Load after env overrides are applied.
func (c *Config) Validate() error {
	switch c.Server.Transport {
	case "stdio", "http":
	default:
		return fmt.Errorf("server.transport: unsupported transport %q (want: stdio, http)", c.Server.Transport)
	}
	if c.Server.Transport == "http" && c.Server.Addr == "" {
		return fmt.Errorf("server.addr: required for http transport")
	}

	if c.Provider.APIKey == "" {
		return fmt.Errorf("provider.api_key: required (set SEARCHMCP_API_KEY)")
	}
	if c.Provider.EngineID == "" {
		return fmt.Errorf("provider.engine_id: required (set SEARCHMCP_ENGINE_ID)")
	}
	if c.Provider.Timeout <= 0 {
		return fmt.Errorf("provider.timeout: must be positive")
	}
	if c.Provider.QPS < 0 {
		return fmt.Errorf("provider.qps: must be >= 0")
	}

	if c.Validation.HeadTimeout <= 0 {
		return fmt.Errorf("validation.head_timeout: must be positive")
	}
	if c.Validation.GetTimeout <= 0 {
		return fmt.Errorf("validation.get_timeout: must be positive")
	}
	// The backstop is the batch layer's safety net against checker logic that
	// does not fully respect its own deadlines; it is meaningless unless it
	// is larger than the checker's combined internal timeouts.
	if c.Validation.Backstop <= c.Validation.HeadTimeout || c.Validation.Backstop <= c.Validation.GetTimeout {
		return fmt.Errorf("validation.backstop: must exceed head_timeout and get_timeout")
	}
	if c.Validation.MinBytes < 0 {
		return fmt.Errorf("validation.min_bytes: must be >= 0")
	}

	switch c.Logger.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logger.level: unknown level %q", c.Logger.Level)
	}
	switch c.Logger.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logger.format: unknown format %q", c.Logger.Format)
	}

	switch c.Tracer.Exporter {
	case "", "stdout", "noop":
	default:
		return fmt.Errorf("tracer.exporter: unsupported exporter %q", c.Tracer.Exporter)
	}

	return nil
}
