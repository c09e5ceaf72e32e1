// Package middleware provides request filters and security checks for the application.
// File: middleware/visitor.go
package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"fashion-registration/logger"
)

// VisitorKey is the session and context key holding the visitor ID.
const VisitorKey = "visitorID"

// -------------- visitor middleware --------------

// VisitorRequired makes sure every request carries a visitor ID.
// How it works:
// - Reads "visitorID" from the session.
// - If missing, generates a new UUID and saves the session.
// - Stores the ID in the gin context under VisitorKey.
// Usage:
//
//	router.GET("/registration", VisitorRequired, handler)
func VisitorRequired(c *gin.Context) {
	session := sessions.Default(c)

	id, ok := session.Get(VisitorKey).(string)
	if !ok || id == "" {
		id = uuid.NewString()
		session.Set(VisitorKey, id)
		if err := session.Save(); err != nil {
			logger.Error.Printf("VisitorRequired: failed to save session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		logger.Debug.Printf("[VisitorRequired] New visitor %s", id)
	}

	c.Set(VisitorKey, id)
	c.Next()
}

// VisitorID returns the ID stored by VisitorRequired.
func VisitorID(c *gin.Context) string {
	return c.GetString(VisitorKey)
}
