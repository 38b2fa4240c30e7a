package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
)

// TrustedRealIP rewrites RemoteAddr from X-Real-IP or X-Forwarded-For when,
// and only when, the connection itself comes from one of the given proxy
// ranges. Rate limiting keys on RemoteAddr, so honoring those headers from
// arbitrary clients would let anyone pick their own bucket.
//
// Entries may be CIDRs or single addresses; a single address trusts exactly
// that host. With no configured ranges the headers are ignored entirely.
func TrustedRealIP(trustedCIDRs []string) func(http.Handler) http.Handler {
	trustedNets := parseProxyRanges(trustedCIDRs)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remoteIP := extractIP(r.RemoteAddr)

			if ipInNetworks(remoteIP, trustedNets) {
				if ip := forwardedClientIP(r.Header); ip != nil {
					r.RemoteAddr = ip.String()
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// parseProxyRanges resolves the configured entries once at startup. A bad
// entry is logged and skipped rather than failing the whole chain.
func parseProxyRanges(entries []string) []*net.IPNet {
	var nets []*net.IPNet
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if _, network, err := net.ParseCIDR(entry); err == nil {
			nets = append(nets, network)
			continue
		}
		if ip := net.ParseIP(entry); ip != nil {
			mask := net.CIDRMask(128, 128)
			if ip.To4() != nil {
				mask = net.CIDRMask(32, 32)
			}
			nets = append(nets, &net.IPNet{IP: ip, Mask: mask})
			continue
		}
		slog.Warn("realip: skipping unparseable trusted proxy entry", "entry", entry)
	}
	return nets
}

// forwardedClientIP reads the client address a proxy reported. X-Real-IP
// wins over X-Forwarded-For; in the forwarded chain only the first hop is
// the original client. Returns nil when neither header carries a parseable
// address.
func forwardedClientIP(h http.Header) net.IP {
	if rip := h.Get("X-Real-IP"); rip != "" {
		return net.ParseIP(strings.TrimSpace(rip))
	}
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		candidate := xff
		if idx := strings.Index(xff, ","); idx > 0 {
			candidate = xff[:idx]
		}
		return net.ParseIP(strings.TrimSpace(candidate))
	}
	return nil
}

// extractIP parses the address part of a host:port string, or a bare IP.
func extractIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}

func ipInNetworks(ip net.IP, nets []*net.IPNet) bool {
	if ip == nil {
		return false
	}
	for _, network := range nets {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}
