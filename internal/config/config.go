package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/mailprobe/")
	v.AddConfigPath("$HOME/.mailprobe")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("MAILPROBE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.listen_address", "0.0.0.0:8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")

	// Classifier defaults
	v.SetDefault("classifier.type", "weighted")
	v.SetDefault("classifier.threshold", 0.7)
	v.SetDefault("classifier.weights", map[string]float64{})
	v.SetDefault("classifier.remote.base_url", "http://localhost:9090")
	v.SetDefault("classifier.remote.timeout", "10s")

	// DNS defaults
	v.SetDefault("dns.resolver", "miekg")
	v.SetDefault("dns.nameservers", []string{})
	v.SetDefault("dns.timeout", "5s")
	v.SetDefault("dns.retries", 1)
	v.SetDefault("dns.cache.enabled", true)
	v.SetDefault("dns.cache.ttl", "5m")

	// Probe defaults
	v.SetDefault("probe.call_timeout", "15s")
	v.SetDefault("probe.dns.timeout", "5s")
	v.SetDefault("probe.dnsbl.zones", []string{
		"zen.spamhaus.org",
		"bl.spamcop.net",
		"b.barracudacentral.org",
	})
	v.SetDefault("probe.dnsbl.workers", 8)
	v.SetDefault("probe.dnsbl.timeout", "3s")
	v.SetDefault("probe.policy.timeout", "5s")
	v.SetDefault("probe.policy.dkim_selectors", []string{})
	v.SetDefault("probe.smtp.enabled", true)
	v.SetDefault("probe.smtp.dialer", "native")
	v.SetDefault("probe.smtp.timeout", "3s")
	v.SetDefault("probe.smtp.port", "25")
	v.SetDefault("probe.smtp.max_hosts", 2)
	v.SetDefault("probe.smtp.helo_domain", "localhost")
	v.SetDefault("probe.smtp.mail_from", "verify@localhost")

	// Reference data defaults
	v.SetDefault("refdata.disposable_file", "")
	v.SetDefault("refdata.disposable_extra", []string{})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetFloat64Map gets a string->float64 map from the configuration
func (c *Config) GetFloat64Map(key string) map[string]float64 {
	raw := c.v.GetStringMap(key)
	out := make(map[string]float64, len(raw))
	for k := range raw {
		out[k] = c.v.GetFloat64(key + "." + k)
	}
	return out
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
