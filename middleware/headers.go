// Package middleware file: middleware/headers.go
package middleware

import "github.com/gin-gonic/gin"

// SecurityHeaders sets framing and content-sniffing headers. When allowFrom
// is non-empty the pages may be embedded by that origin only.
func SecurityHeaders(allowFrom string) gin.HandlerFunc {
	frameAncestors := "frame-ancestors 'self'"
	if allowFrom != "" {
		frameAncestors += " " + allowFrom
	}

	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "same-origin")
		h.Set("Content-Security-Policy", frameAncestors)
		if allowFrom == "" {
			h.Set("X-Frame-Options", "SAMEORIGIN")
		}
		c.Next()
	}
}
