package config

import "time"

// ServerConfig represents the configuration for the HTTP server
type ServerConfig struct {
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
}

// ClassifierConfig represents the configuration for the classifier adapter
type ClassifierConfig struct {
	Type          string
	Threshold     float64
	Weights       map[string]float64
	RemoteBaseURL string
	RemoteTimeout time.Duration
}

// DNSConfig represents the configuration for the DNS resolver
type DNSConfig struct {
	Resolver     string
	Nameservers  []string
	Timeout      time.Duration
	Retries      int
	CacheEnabled bool
	CacheTTL     time.Duration
}

// ProbeConfig represents the configuration for the probe pipeline
type ProbeConfig struct {
	CallTimeout    time.Duration
	DNSTimeout     time.Duration
	DNSBLZones     []string
	DNSBLWorkers   int
	DNSBLTimeout   time.Duration
	PolicyTimeout  time.Duration
	DKIMSelectors  []string
	SMTPEnabled    bool
	SMTPDialer     string
	SMTPTimeout    time.Duration
	SMTPPort       string
	SMTPMaxHosts   int
	SMTPHeloDomain string
	SMTPMailFrom   string
}

// RefDataConfig represents the configuration for reference data
type RefDataConfig struct {
	DisposableFile  string
	DisposableExtra []string
}

// GetServer returns the server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   c.duration("server.read_timeout", 30*time.Second),
		WriteTimeout:  c.duration("server.write_timeout", 60*time.Second),
	}
}

// GetClassifier returns the classifier configuration
func (c *Config) GetClassifier() ClassifierConfig {
	return ClassifierConfig{
		Type:          c.GetString("classifier.type"),
		Threshold:     c.GetFloat64("classifier.threshold"),
		Weights:       c.GetFloat64Map("classifier.weights"),
		RemoteBaseURL: c.GetString("classifier.remote.base_url"),
		RemoteTimeout: c.duration("classifier.remote.timeout", 10*time.Second),
	}
}

// GetDNS returns the DNS resolver configuration
func (c *Config) GetDNS() DNSConfig {
	return DNSConfig{
		Resolver:     c.GetString("dns.resolver"),
		Nameservers:  c.GetStringSlice("dns.nameservers"),
		Timeout:      c.duration("dns.timeout", 5*time.Second),
		Retries:      c.GetInt("dns.retries"),
		CacheEnabled: c.GetBool("dns.cache.enabled"),
		CacheTTL:     c.duration("dns.cache.ttl", 5*time.Minute),
	}
}

// GetProbe returns the probe pipeline configuration
func (c *Config) GetProbe() ProbeConfig {
	return ProbeConfig{
		CallTimeout:    c.duration("probe.call_timeout", 15*time.Second),
		DNSTimeout:     c.duration("probe.dns.timeout", 5*time.Second),
		DNSBLZones:     c.GetStringSlice("probe.dnsbl.zones"),
		DNSBLWorkers:   c.GetInt("probe.dnsbl.workers"),
		DNSBLTimeout:   c.duration("probe.dnsbl.timeout", 3*time.Second),
		PolicyTimeout:  c.duration("probe.policy.timeout", 5*time.Second),
		DKIMSelectors:  c.GetStringSlice("probe.policy.dkim_selectors"),
		SMTPEnabled:    c.GetBool("probe.smtp.enabled"),
		SMTPDialer:     c.GetString("probe.smtp.dialer"),
		SMTPTimeout:    c.duration("probe.smtp.timeout", 3*time.Second),
		SMTPPort:       c.GetString("probe.smtp.port"),
		SMTPMaxHosts:   c.GetInt("probe.smtp.max_hosts"),
		SMTPHeloDomain: c.GetString("probe.smtp.helo_domain"),
		SMTPMailFrom:   c.GetString("probe.smtp.mail_from"),
	}
}

// GetRefData returns the reference data configuration
func (c *Config) GetRefData() RefDataConfig {
	return RefDataConfig{
		DisposableFile:  c.GetString("refdata.disposable_file"),
		DisposableExtra: c.GetStringSlice("refdata.disposable_extra"),
	}
}

// duration parses a duration key, falling back when the value is unset
// or malformed.
func (c *Config) duration(key string, fallback time.Duration) time.Duration {
	d, err := c.GetDuration(key)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
