package ratelimit

import "strings"

// matchRoute finds the route governing a request. Exact path+method matches
// win; otherwise the longest matching "/"-terminated prefix route is used.
// Returns nil when no route applies, which means the default limit.
func matchRoute(path, method string, routes []Route) *Route {
	// The health check is probed by orchestrators and never limited.
	if path == "/health" && method == "GET" {
		return &Route{}
	}

	var prefix *Route
	for i := range routes {
		r := &routes[i]
		if r.Method != method {
			continue
		}
		if r.Path == path {
			return r
		}
		if strings.HasSuffix(r.Path, "/") && strings.HasPrefix(path, r.Path) {
			if prefix == nil || len(r.Path) > len(prefix.Path) {
				prefix = r
			}
		}
	}
	return prefix
}
