// Package fetcher provides the HTTP client used for feed and page fetching,
// including conditional requests with cache validators.
package fetcher

import (
	"fmt"
	"net"
	"net/url"
)

// validateURL validates a URL before any request is made. It requires an
// http/https scheme and a hostname, and when denyPrivateIPs is set it resolves
// the host and rejects private, loopback, and link-local targets so a hostile
// source list cannot reach internal services.
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
		// Resolution failure surfaces on the request itself; validation only
		// cares about hosts that resolve somewhere forbidden.
		return nil
	}

	for _, ip := range ips {
		if isRestrictedIP(ip) {
			return fmt.Errorf("%w: hostname '%s' resolves to %s", ErrPrivateIP, hostname, ip.String())
		}
	}

	return nil
}

// isRestrictedIP reports whether the address is loopback, link-local, or in a
// private range (both IPv4 RFC 1918 and IPv6 unique-local).
func isRestrictedIP(ip net.IP) bool {
	return ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsPrivate()
}
