package config

import "os"

// ApplyEnvConfig applies configuration from LOKISHIP_* environment
// variables, respecting flags that were set explicitly (changed map).
// Returns an error if a variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", os.Getenv("LOKISHIP_URL"), &cfg.URL)
	s.setString("tenant", os.Getenv("LOKISHIP_TENANT_ID"), &cfg.TenantID)
	s.setString("auth-key", os.Getenv("LOKISHIP_AUTH_KEY"), &cfg.AuthKey)
	s.setString("format", os.Getenv("LOKISHIP_FORMAT"), &cfg.Format)
	s.setString("input", os.Getenv("LOKISHIP_INPUT"), &cfg.Input)
	s.setString("metrics-addr", os.Getenv("LOKISHIP_METRICS_ADDR"), &cfg.MetricsAddr)

	if err := s.setIntFromString("max-batch-bytes", os.Getenv("LOKISHIP_MAX_BATCH_BYTES"), &cfg.MaxBatchBytes); err != nil {
		return err
	}
	if err := s.setIntFromString("max-batch-records", os.Getenv("LOKISHIP_MAX_BATCH_RECORDS"), &cfg.MaxBatchRecords); err != nil {
		return err
	}
	if err := s.setDuration("send-interval", os.Getenv("LOKISHIP_SEND_INTERVAL"), &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("hard-interval", os.Getenv("LOKISHIP_HARD_INTERVAL"), &cfg.HardInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll-interval", os.Getenv("LOKISHIP_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", os.Getenv("LOKISHIP_HTTP_TIMEOUT"), &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBoolFromString("once", os.Getenv("LOKISHIP_ONCE"), &cfg.Once)
	return nil
}
