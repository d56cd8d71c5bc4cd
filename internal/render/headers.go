package render

import "net/http"

const contentSecurityPolicy = "default-src 'self'; " +
	"script-src 'self' 'unsafe-inline'; " +
	"style-src 'self' 'unsafe-inline'; " +
	"img-src 'self' data: https:; " +
	"font-src 'self' data:; " +
	"connect-src 'self' https:; " +
	"frame-ancestors 'none'; " +
	"base-uri 'self'; " +
	"form-action 'self'"

var documentHeaders = http.Header{
	"Content-Type":              {"text/html; charset=utf-8"},
	"Cache-Control":             {"public, max-age=60, stale-while-revalidate=300"},
	"Content-Security-Policy":   {contentSecurityPolicy},
	"Strict-Transport-Security": {"max-age=31536000; includeSubDomains; preload"},
	"X-Frame-Options":           {"DENY"},
	"Referrer-Policy":           {"strict-origin-when-cross-origin"},
	"Permissions-Policy":        {"camera=(), microphone=(), geolocation=(), interest-cohort=()"},
	"X-Robots-Tag":              {"index, follow"},
	"X-Content-Type-Options":    {"nosniff"},
}

// Headers returns the route-independent headers of every rendered document.
func Headers() http.Header {
	return documentHeaders.Clone()
}
