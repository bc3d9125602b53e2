package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingVendorKey is wrapped by Validate when the vendor credential is
// absent.
var ErrMissingVendorKey = errors.New("missing vendor API key")

// Validate checks the settings the service cannot start without.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Vendor.APIKey) == "" {
		return fmt.Errorf("%w: %s não está configurada!", ErrMissingVendorKey, VendorKeyEnv(c.Vendor.Name))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if err := ValidateTimeout(c.Poll.Interval, "poll interval"); err != nil {
		return err
	}
	if err := ValidateTimeout(c.Poll.Timeout, "poll"); err != nil {
		return err
	}
	if c.Poll.Interval >= c.Poll.Timeout {
		return fmt.Errorf("poll interval %s must be shorter than poll timeout %s", c.Poll.Interval, c.Poll.Timeout)
	}
	if c.Storage.Enabled() && (c.Storage.AccessKey == "" || c.Storage.SecretKey == "") {
		return fmt.Errorf("object storage endpoint set without MINIO_ACCESS_KEY/MINIO_SECRET_KEY")
	}
	if c.Database.PostgresDSN == "" && c.Database.SQLitePath == "" {
		return fmt.Errorf("no history store configured: set DATABASE_URL or database.sqlite_path")
	}
	return nil
}

// ValidateTimeout validates timeout duration
func ValidateTimeout(timeout time.Duration, name string) error {
	if timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive", name)
	}
	if timeout > 30*time.Minute {
		return fmt.Errorf("%s timeout too large (max 30 minutes)", name)
	}
	return nil
}
