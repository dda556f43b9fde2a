package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"os"
	"strings"
)

// IPExtractor resolves the client IP of a request for rate limiting. The two
// implementations trade security for deployment flexibility: RemoteAddrExtractor
// trusts only the TCP peer, TrustedProxyExtractor additionally honors
// forwarding headers from configured reverse proxies.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the connection's peer address. Nothing the client
// sends can change the result, which makes it the safe default when the
// service is reached directly.
type RemoteAddrExtractor struct{}

func (e *RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyConfig lists the reverse proxies whose forwarding headers may
// be believed. When Enabled is false all header-based extraction is off.
type TrustedProxyConfig struct {
	Enabled bool

	// AllowedCIDRs holds the trusted proxy ranges. Single IPs are stored as
	// /32 or /128 prefixes.
	AllowedCIDRs []netip.Prefix
}

// IsTrusted reports whether remoteAddr ("IP:port") belongs to a configured
// proxy range. Unparseable addresses are never trusted.
func (c *TrustedProxyConfig) IsTrusted(remoteAddr string) bool {
	host, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	for _, prefix := range c.AllowedCIDRs {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// parseProxyPrefix accepts CIDR notation or a bare IP, widening the latter
// to a host prefix.
func parseProxyPrefix(s string) (netip.Prefix, error) {
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return prefix, nil
	}
	ip, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid IP or CIDR format '%s': must be valid IP address or CIDR notation (e.g., '192.168.1.1' or '10.0.0.0/8')", s)
	}
	bits := 32
	if !ip.Is4() {
		bits = 128
	}
	return netip.PrefixFrom(ip, bits), nil
}

// LoadTrustedProxyConfig reads RATE_LIMIT_TRUST_PROXY and
// RATE_LIMIT_TRUSTED_PROXIES (comma-separated IPs or CIDR ranges). The
// configuration fails closed: enabling trust without a valid proxy list is a
// startup error rather than a silently open header path.
func LoadTrustedProxyConfig() (*TrustedProxyConfig, error) {
	config := &TrustedProxyConfig{
		Enabled:      os.Getenv("RATE_LIMIT_TRUST_PROXY") == "true",
		AllowedCIDRs: []netip.Prefix{},
	}
	if !config.Enabled {
		return config, nil
	}

	raw := strings.TrimSpace(os.Getenv("RATE_LIMIT_TRUSTED_PROXIES"))
	if raw == "" {
		return nil, fmt.Errorf("RATE_LIMIT_TRUST_PROXY is enabled but RATE_LIMIT_TRUSTED_PROXIES is empty")
	}

	for _, entry := range splitCSV(raw) {
		prefix, err := parseProxyPrefix(entry)
		if err != nil {
			return nil, err
		}
		config.AllowedCIDRs = append(config.AllowedCIDRs, prefix)
	}
	if len(config.AllowedCIDRs) == 0 {
		return nil, fmt.Errorf("RATE_LIMIT_TRUST_PROXY is enabled but no valid proxies found in RATE_LIMIT_TRUSTED_PROXIES")
	}
	return config, nil
}

// TrustedProxyExtractor reads X-Forwarded-For (first IP) or X-Real-IP, but
// only when the connection comes from a trusted proxy. Untrusted peers fall
// back to RemoteAddr so clients cannot rotate their apparent IP by sending
// forged headers.
type TrustedProxyExtractor struct {
	config TrustedProxyConfig
}

func NewTrustedProxyExtractor(config TrustedProxyConfig) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{config: config}
}

func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.config.Enabled {
		return extractIPFromAddr(r.RemoteAddr)
	}

	if !e.config.IsTrusted(r.RemoteAddr) {
		// Headers from an untrusted peer are a spoofing attempt worth
		// surfacing in the logs.
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted proxy attempting to set X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff),
			)
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			slog.Warn("untrusted proxy attempting to set X-Real-IP",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_real_ip", xri),
			)
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if ip := parseFirstIP(r.Header.Get("X-Forwarded-For")); ip != "" {
		return ip, nil
	}
	if ip := net.ParseIP(r.Header.Get("X-Real-IP")); ip != nil {
		return ip.String(), nil
	}
	return extractIPFromAddr(r.RemoteAddr)
}

// extractIPFromAddr strips the port from "host:port" style addresses and also
// accepts a bare IP, covering both "192.168.1.1:8080" and "[::1]" forms.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}

// parseFirstIP returns the first IP in a comma-separated X-Forwarded-For
// value ("client, proxy1, proxy2"), or "" when that entry is not a valid IP.
func parseFirstIP(s string) string {
	if s == "" {
		return ""
	}
	first := s
	if i := strings.IndexByte(s, ','); i >= 0 {
		first = s[:i]
	}
	if ip := net.ParseIP(first); ip != nil {
		return ip.String()
	}
	return ""
}
