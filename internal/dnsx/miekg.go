package dnsx

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// ResolverConfig configures the miekg/dns-backed resolver.
type ResolverConfig struct {
	// Nameservers to query, host:port. When empty the servers from
	// /etc/resolv.conf are used, falling back to public DNS.
	Nameservers []string

	// Timeout applies to each individual DNS exchange. Default 5s.
	Timeout time.Duration

	// Retries is the number of extra passes over the nameserver list
	// after a failed query. Default 1.
	Retries int
}

// DNSResolver implements Resolver using github.com/miekg/dns, giving
// explicit control over nameservers, retries and per-query timeouts.
type DNSResolver struct {
	cfg    ResolverConfig
	client *mdns.Client
}

// NewDNSResolver creates a resolver with the given configuration.
func NewDNSResolver(cfg ResolverConfig) *DNSResolver {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Retries == 0 {
		cfg.Retries = 1
	}
	if len(cfg.Nameservers) == 0 {
		cfg.Nameservers = systemNameservers()
	}

	return &DNSResolver{
		cfg:    cfg,
		client: &mdns.Client{Timeout: cfg.Timeout},
	}
}

// systemNameservers reads resolv.conf, falling back to public DNS.
func systemNameservers() []string {
	conf, err := mdns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return []string{"8.8.8.8:53", "1.1.1.1:53"}
	}

	servers := make([]string, 0, len(conf.Servers))
	for _, s := range conf.Servers {
		servers = append(servers, net.JoinHostPort(s, conf.Port))
	}
	return servers
}

func fqdn(name string) string {
	if strings.HasSuffix(name, ".") {
		return name
	}
	return name + "."
}

// query runs one DNS question across the configured nameservers with retries.
func (r *DNSResolver) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, error) {
	m := new(mdns.Msg)
	m.SetQuestion(fqdn(name), qtype)
	m.RecursionDesired = true

	var lastErr error
	for attempt := 0; attempt <= r.cfg.Retries; attempt++ {
		for _, server := range r.cfg.Nameservers {
			if err := ctx.Err(); err != nil {
				return nil, ErrTimeout
			}

			resp, _, err := r.client.ExchangeContext(ctx, m, server)
			if err != nil {
				lastErr = fmt.Errorf("dns exchange failed: %w", err)
				continue
			}

			switch resp.Rcode {
			case mdns.RcodeSuccess:
				return resp, nil
			case mdns.RcodeNameError:
				return nil, ErrNotFound
			case mdns.RcodeServerFailure:
				lastErr = ErrServFail
			case mdns.RcodeRefused:
				lastErr = ErrRefused
			default:
				lastErr = fmt.Errorf("dns: unexpected rcode %d", resp.Rcode)
			}
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrServFail
}

// LookupIP resolves A and AAAA records for the domain.
func (r *DNSResolver) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	var ips []net.IP
	var lastErr error

	resp, err := r.query(ctx, domain, mdns.TypeA)
	if err != nil && err != ErrNotFound {
		lastErr = err
	} else if resp != nil {
		for _, rr := range resp.Answer {
			if a, ok := rr.(*mdns.A); ok {
				ips = append(ips, a.A)
			}
		}
	}

	resp, err = r.query(ctx, domain, mdns.TypeAAAA)
	if err != nil && err != ErrNotFound {
		if lastErr == nil {
			lastErr = err
		}
	} else if resp != nil {
		for _, rr := range resp.Answer {
			if aaaa, ok := rr.(*mdns.AAAA); ok {
				ips = append(ips, aaaa.AAAA)
			}
		}
	}

	if len(ips) == 0 {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, ErrNotFound
	}
	return ips, nil
}

// LookupMX resolves MX records for the domain.
func (r *DNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	resp, err := r.query(ctx, domain, mdns.TypeMX)
	if err != nil {
		return nil, err
	}

	var records []*net.MX
	for _, rr := range resp.Answer {
		if mx, ok := rr.(*mdns.MX); ok {
			records = append(records, &net.MX{
				Host: mx.Mx,
				Pref: mx.Preference,
			})
		}
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}

// LookupTXT resolves TXT records for the name. Split character strings
// within one record are joined per RFC 7208 section 3.3.
func (r *DNSResolver) LookupTXT(ctx context.Context, name string) ([]string, error) {
	resp, err := r.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return nil, err
	}

	var records []string
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			records = append(records, strings.Join(txt.Txt, ""))
		}
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}
	return records, nil
}
