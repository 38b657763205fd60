package config

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to keep the TOML
// friendly to write by hand.
type FileConfig struct {
	URL             string            `toml:"url"`
	TenantID        string            `toml:"tenant_id"`
	AuthKey         string            `toml:"auth_key"`
	Format          string            `toml:"format"`
	Labels          map[string]string `toml:"labels"`
	Input           string            `toml:"input"`
	MaxBatchBytes   int               `toml:"max_batch_bytes"`
	MaxBatchRecords int               `toml:"max_batch_records"`
	SendInterval    string            `toml:"send_interval"`
	HardInterval    string            `toml:"hard_interval"`
	PollInterval    string            `toml:"poll_interval"`
	HTTPTimeout     string            `toml:"http_timeout"`
	MetricsAddr     string            `toml:"metrics_addr"`
	Once            *bool             `toml:"once"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns ~/.lokiship/config.toml, or "" if the home
// directory is not accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".lokiship", "config.toml")
	}
	return ""
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	if p == "" {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

// ApplyFileConfig applies file values onto cfg, respecting flags that were
// set explicitly (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("url", fc.URL, &cfg.URL)
	s.setString("tenant", fc.TenantID, &cfg.TenantID)
	s.setString("auth-key", fc.AuthKey, &cfg.AuthKey)
	s.setString("format", fc.Format, &cfg.Format)
	s.setString("input", fc.Input, &cfg.Input)
	s.setString("metrics-addr", fc.MetricsAddr, &cfg.MetricsAddr)
	s.setInt("max-batch-bytes", fc.MaxBatchBytes, &cfg.MaxBatchBytes)
	s.setInt("max-batch-records", fc.MaxBatchRecords, &cfg.MaxBatchRecords)

	if len(fc.Labels) > 0 && !changed["label"] {
		if cfg.Labels == nil {
			cfg.Labels = make(map[string]string, len(fc.Labels))
		}
		for k, v := range fc.Labels {
			cfg.Labels[k] = v
		}
	}

	if err := s.setDuration("send-interval", fc.SendInterval, &cfg.SendInterval); err != nil {
		return err
	}
	if err := s.setDuration("hard-interval", fc.HardInterval, &cfg.HardInterval); err != nil {
		return err
	}
	if err := s.setDuration("poll-interval", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("http-timeout", fc.HTTPTimeout, &cfg.HTTPTimeout); err != nil {
		return err
	}

	s.setBool("once", fc.Once, &cfg.Once)
	return nil
}
