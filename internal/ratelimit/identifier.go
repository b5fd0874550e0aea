package ratelimit

import (
	"strings"
	"unicode/utf8"
)

const maxIdentifierLength = 100

// ClientIdentifier derives the bucket key for a request from its headers:
// the first X-Forwarded-For hop, else X-Real-IP, else user agent plus accept
// language. The fallback is weak; clients without proxy headers can share a bucket.
func ClientIdentifier(header func(string) string) string {
	if forwarded := header("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if realIP := strings.TrimSpace(header("X-Real-IP")); realIP != "" {
		return realIP
	}

	userAgent := header("User-Agent")
	if userAgent == "" {
		userAgent = "unknown"
	}
	language := header("Accept-Language")
	if language == "" {
		language = "unknown"
	}
	id := userAgent + "-" + language
	if len(id) > maxIdentifierLength {
		cut := maxIdentifierLength
		for cut > 0 && !utf8.RuneStart(id[cut]) {
			cut--
		}
		id = id[:cut]
	}
	return id
}
