// FILE: bistrolog/src/internal/middleware/normalize.go
package middleware

import (
	"strings"

	"github.com/google/uuid"
)

// NormalizeURLPattern collapses variable URL segments so access entries
// group by route shape rather than by individual resource: numeric
// segments become ":id", UUID segments become ":uuid", and the query
// string is stripped. "/products/123?ref=home" becomes "/products/:id".
func NormalizeURLPattern(rawURL string) string {
	path := rawURL
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == "/" {
		return "/"
	}

	segments := strings.Split(path, "/")
	for i, seg := range segments {
		switch {
		case seg == "":
		case isNumeric(seg):
			segments[i] = ":id"
		case isUUID(seg):
			segments[i] = ":uuid"
		}
	}
	return strings.Join(segments, "/")
}

// StatusCategory maps a status code to its coarse outcome class.
func StatusCategory(status int) string {
	switch {
	case status >= 500:
		return "server_error"
	case status >= 400:
		return "client_error"
	case status >= 300:
		return "redirect"
	default:
		return "success"
	}
}

func isNumeric(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
