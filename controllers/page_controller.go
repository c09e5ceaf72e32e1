// Package controllers file: controllers/page_controller.go
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fashion-registration/logger"
	"fashion-registration/models"
	"fashion-registration/services"
)

// qrCodeSize is the edge length of the generated QR code in pixels.
const qrCodeSize = 300

var (
	ApplicationURL  string
	RegistrationURL string
)

// qrEncoder is swapped in tests.
var qrEncoder services.QRCodeEncoder

// Health answers load balancer checks.
func Health(c *gin.Context) {
	logger.Debug.Println("Health: Health check requested")
	c.String(http.StatusOK, "OK")
}

// Landing renders the event landing page.
func Landing(c *gin.Context) {
	logger.Info.Println("Landing: Rendering landing page")
	c.HTML(http.StatusOK, "landing.html", gin.H{
		"Event":           models.DefaultEvent(),
		"RegistrationURL": "/registration",
		"Toasts":          popToasts(c),
	})
}

// GetQRCode returns a PNG QR code pointing at the registration page.
func GetQRCode(c *gin.Context) {
	logger.Info.Println("GetQRCode: Generating QR code")

	qrBytes, err := services.GenerateQRCode(RegistrationURL, qrCodeSize, qrEncoder)
	if err != nil {
		logger.Error.Printf("GetQRCode: Error generating QR code: %v", err)
		c.String(http.StatusInternalServerError, "QR generation failed")
		return
	}

	c.Header("Content-Type", "image/png")
	c.Header("Content-Disposition", "inline; filename=\"registration-qrcode.png\"")
	if _, err := c.Writer.Write(qrBytes); err != nil {
		logger.Error.Printf("GetQRCode: Error writing QR code bytes: %v", err)
	}
}

// SetConfig sets the public base URL and the registration URL derived from it.
func SetConfig(appURL string) {
	ApplicationURL = strings.TrimRight(appURL, "/")
	RegistrationURL = ApplicationURL + "/registration"
	logger.Info.Printf("SetConfig: Global config updated: ApplicationURL=%s, RegistrationURL=%s", ApplicationURL, RegistrationURL)
}
