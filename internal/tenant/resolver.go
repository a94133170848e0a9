package tenant

import "strings"

// Resolver extracts a tenant slug from a request hostname. A visitor on
// "hardik.portfolio-generator.hbhanot.tech" is routed to hardik's published
// portfolio; the bare apex and "www" serve the main application.
//
// The resolver is deliberately conservative: a missed tenant falls through to
// the main application, which is recoverable, while misrouting an apex
// visitor onto a tenant page is not.
type Resolver struct {
	apexes   []string
	devLabel string
}

// NewResolver builds a resolver for the configured apex domains and the
// development loopback label (normally "localhost").
func NewResolver(apexes []string, devLabel string) *Resolver {
	lowered := make([]string, 0, len(apexes))
	for _, a := range apexes {
		if a = strings.ToLower(strings.Trim(a, ".")); a != "" {
			lowered = append(lowered, a)
		}
	}
	return &Resolver{apexes: lowered, devLabel: strings.ToLower(devLabel)}
}

// Resolve returns the tenant slug for hostname, or "" when the host should
// be served the main application.
func (r *Resolver) Resolve(hostname string) string {
	host := strings.ToLower(strings.TrimSuffix(hostname, "."))
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		host = host[:i]
	}
	if host == "" {
		return ""
	}

	labels := strings.Split(host, ".")

	// Loopback rule: "hardik.localhost" resolves during development.
	if r.devLabel != "" && strings.Contains(host, r.devLabel) {
		if len(labels) > 1 && labels[0] != "www" && labels[0] != r.devLabel {
			return labels[0]
		}
		return ""
	}

	for _, apex := range r.apexes {
		if host == apex {
			return ""
		}
		if !strings.HasSuffix(host, "."+apex) {
			continue
		}
		if len(labels) > len(strings.Split(apex, ".")) && labels[0] != "www" {
			return labels[0]
		}
		return ""
	}
	return ""
}
