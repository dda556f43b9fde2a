// Package fetcher retrieves blog post content from Naver blog RSS feeds,
// with an optional full-page fallback for feeds that only carry excerpts.
package fetcher

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL checks a URL before any request is made. Only http/https
// schemes are accepted, and when denyPrivateIPs is set the hostname must
// not resolve to a loopback, private, or link-local address. The DNS check
// runs against every resolved IP so a mixed A record cannot slip through.
func validateURL(urlStr string, denyPrivateIPs bool) error {
	u, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("%w: parse error: %v", ErrInvalidURL, err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme '%s' not allowed (only http/https)", ErrInvalidURL, u.Scheme)
	}

	hostname := u.Hostname()
	if hostname == "" {
		return fmt.Errorf("%w: empty hostname", ErrInvalidURL)
	}

	if !denyPrivateIPs {
		return nil
	}

	ips, err := net.LookupIP(hostname)
	if err != nil {
		return fmt.Errorf("%w: DNS lookup failed for %s: %v", ErrInvalidURL, hostname, err)
	}

	for _, ip := range ips {
		if isPrivateIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to %s", ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isPrivateIP reports whether the IP is loopback, private (RFC 1918 /
// RFC 4193), or link-local. Supports both IPv4 and IPv6.
func isPrivateIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast()
}
