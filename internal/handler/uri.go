package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// BaseURI resolves the public URL of the faculty collection.
//
// Behind a proxy that sets X-Forwarded-Host the URL is rebuilt from the
// forwarded headers, falling back to defaultPrefix when X-Forwarded-Prefix is
// absent. Otherwise it comes from the request itself.
func BaseURI(c *gin.Context, restPath, defaultPrefix string) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}

	host := firstValue(c.GetHeader("X-Forwarded-Host"))
	if host == "" {
		return scheme + "://" + c.Request.Host + restPath
	}

	if proto := firstValue(c.GetHeader("X-Forwarded-Proto")); proto != "" {
		scheme = proto
	}
	prefix := firstValue(c.GetHeader("X-Forwarded-Prefix"))
	if prefix == "" {
		prefix = defaultPrefix
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return scheme + "://" + host + prefix + restPath
}

// firstValue picks the client-facing entry of a comma-separated proxy header.
func firstValue(h string) string {
	v, _, _ := strings.Cut(h, ",")
	return strings.TrimSpace(v)
}
