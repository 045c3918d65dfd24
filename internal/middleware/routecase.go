package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

// CaseInsensitiveRoutes lowercases the first path segment, so /LIST and
// /Album/x reach the same routes as /list and /album/x. Album and photo
// names after it keep their case.
func CaseInsensitiveRoutes(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := lowerFirstSegment(r.URL.Path)
		if path == r.URL.Path {
			next.ServeHTTP(w, r)
			return
		}

		r2 := new(http.Request)
		*r2 = *r
		r2.URL = new(url.URL)
		*r2.URL = *r.URL
		r2.URL.Path = path
		if r.URL.RawPath != "" {
			r2.URL.RawPath = lowerFirstSegment(r.URL.RawPath)
		}
		next.ServeHTTP(w, r2)
	})
}

func lowerFirstSegment(p string) string {
	rest := strings.TrimPrefix(p, "/")
	segment, tail, found := strings.Cut(rest, "/")
	lower := strings.ToLower(segment)
	if lower == segment {
		return p
	}

	out := p[:len(p)-len(rest)] + lower
	if found {
		out += "/" + tail
	}
	return out
}
