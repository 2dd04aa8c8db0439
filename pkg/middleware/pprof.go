package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"net/netip"
	"slices"

	"github.com/go-chi/chi/v5"
)

// RegisterPprof mounts the runtime profiling endpoints under /debug/pprof for
// callers inside allowedCIDRs.
func RegisterPprof(r chi.Router, allowedCIDRs []string, logger *slog.Logger) {
	endpoints := map[string]http.HandlerFunc{
		"/debug/pprof/*":       pprof.Index,
		"/debug/pprof/cmdline": pprof.Cmdline,
		"/debug/pprof/profile": pprof.Profile,
		"/debug/pprof/symbol":  pprof.Symbol,
		"/debug/pprof/trace":   pprof.Trace,
	}
	r.Group(func(r chi.Router) {
		r.Use(IPAllowlist(allowedCIDRs, logger))
		for pattern, h := range endpoints {
			r.HandleFunc(pattern, h)
		}
	})
}

type allowlist []netip.Prefix

func parseAllowlist(cidrs []string, logger *slog.Logger) allowlist {
	out := make(allowlist, 0, len(cidrs))
	for _, cidr := range cidrs {
		p, err := netip.ParsePrefix(cidr)
		if err != nil {
			logger.Warn("ignoring invalid allowlist entry", slog.String("cidr", cidr), slog.String("error", err.Error()))
			continue
		}
		out = append(out, p.Masked())
	}
	return out
}

// permits reports whether remote, an "ip:port" or bare ip, falls inside a prefix.
func (a allowlist) permits(remote string) bool {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		host = remote
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	return slices.ContainsFunc(a, func(p netip.Prefix) bool { return p.Contains(addr) })
}

// IPAllowlist answers 403 to callers outside every prefix in cidrs.
// Unparseable prefixes are logged and skipped, so an empty or fully invalid
// list denies everyone.
func IPAllowlist(cidrs []string, logger *slog.Logger) func(http.Handler) http.Handler {
	allowed := parseAllowlist(cidrs, logger)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !allowed.permits(r.RemoteAddr) {
				logger.WarnContext(r.Context(), "debug endpoint access denied",
					slog.String("remote", r.RemoteAddr),
					slog.String("path", r.URL.Path),
				)
				writeJSONError(w, http.StatusForbidden, "FORBIDDEN", "access restricted by IP allowlist")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
