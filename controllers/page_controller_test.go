// controllers/page_controller_test.go
package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/skip2/go-qrcode"
	"github.com/stretchr/testify/assert"
)

// TestHealth tests the Health function
func TestHealth(t *testing.T) {
	router := setupTestRouter(t)
	router.GET("/health", Health)

	req, _ := http.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}

// TestLanding renders the event content
func TestLanding(t *testing.T) {
	router := setupTestRouter(t)
	router.GET("/", Landing)

	req, _ := http.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "FASHION WEEK 2025")
	assert.Contains(t, w.Body.String(), "/registration")
}

// TestSetConfig derives the registration URL
func TestSetConfig(t *testing.T) {
	SetConfig("https://fashion.example.com/")
	defer SetConfig("http://localhost:8080")

	assert.Equal(t, "https://fashion.example.com", ApplicationURL)
	assert.Equal(t, "https://fashion.example.com/registration", RegistrationURL)
}

// TestGetQRCode tests the QR code endpoint
func TestGetQRCode(t *testing.T) {
	SetConfig("http://localhost:8080")
	router := setupTestRouter(t)
	router.GET("/qrcode", GetQRCode)

	req, _ := http.NewRequest("GET", "/qrcode", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String()[:4])
}

func TestGetQRCode_EncodeFailure(t *testing.T) {
	SetConfig("http://localhost:8080")
	qrEncoder = func(string, qrcode.RecoveryLevel, int) ([]byte, error) {
		return nil, errors.New("encoder broken")
	}
	defer func() { qrEncoder = nil }()

	router := setupTestRouter(t)
	router.GET("/qrcode", GetQRCode)

	req, _ := http.NewRequest("GET", "/qrcode", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "QR generation failed", w.Body.String())
}
