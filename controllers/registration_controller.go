// Package controllers file: controllers/registration_controller.go
package controllers

import (
	"encoding/gob"
	"errors"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"fashion-registration/logger"
	"fashion-registration/middleware"
	"fashion-registration/models"
	"fashion-registration/services"
	"fashion-registration/websocket"
)

func init() {
	// toasts travel between requests as session flashes
	gob.Register(services.Toast{})
}

// RegistrationController serves the registration page of every visitor.
type RegistrationController struct {
	Flows   *services.FlowRegistry
	Metrics services.MetricsPublisher
}

// fieldUpdate is the body of POST /registration/field.
type fieldUpdate struct {
	Name  string `form:"name" json:"name" binding:"required"`
	Value string `form:"value" json:"value"`
}

// NewRegistrationController creates a RegistrationController. A nil metrics
// publisher discards metrics.
func NewRegistrationController(flows *services.FlowRegistry, metrics services.MetricsPublisher) *RegistrationController {
	logger.Debug.Println("NewRegistrationController: Initializing RegistrationController")
	if metrics == nil {
		metrics = services.NoopMetrics{}
	}
	return &RegistrationController{Flows: flows, Metrics: metrics}
}

// ShowRegistration renders the form while collecting and the success view once submitted.
func (rc *RegistrationController) ShowRegistration(c *gin.Context) {
	flow := rc.flow(c)
	snap := flow.Snapshot()
	toasts := popToasts(c)

	if snap.Form == nil {
		logger.Info.Printf("ShowRegistration: Rendering success view for visitor %s", middleware.VisitorID(c))
		c.HTML(http.StatusOK, "success.html", gin.H{
			"Event":  models.DefaultEvent(),
			"Toasts": toasts,
		})
		return
	}

	logger.Info.Printf("ShowRegistration: Rendering form for visitor %s", middleware.VisitorID(c))
	c.HTML(http.StatusOK, "registration.html", rc.formPage(flow, *snap.Form, toasts))
}

// SubmitRegistration stores the posted fields and submits the form.
func (rc *RegistrationController) SubmitRegistration(c *gin.Context) {
	visitor := middleware.VisitorID(c)
	flow := rc.flow(c)

	form, err := flow.Form()
	if err != nil {
		logger.Warn.Printf("SubmitRegistration: visitor %s already submitted; redirecting", visitor)
		c.Redirect(http.StatusSeeOther, "/registration")
		return
	}

	if err := c.Request.ParseForm(); err != nil {
		logger.Warn.Printf("SubmitRegistration: malformed form body: %v", err)
		c.String(http.StatusBadRequest, "malformed form")
		return
	}
	updates := make(map[string]string)
	for _, name := range flow.Schema().Fields() {
		value, present := c.GetPostForm(name)
		// an unchecked checkbox is not posted at all
		if !present && name != services.FieldNewsletter {
			continue
		}
		updates[name] = value
	}
	if err := form.SetFields(updates); err != nil {
		logger.Warn.Printf("SubmitRegistration: posted values rejected: %v", err)
		c.String(http.StatusBadRequest, "invalid form values")
		return
	}

	sub, err := flow.Submit()
	if err != nil {
		var ve *models.ValidationError
		switch {
		case errors.As(err, &ve):
			rc.Metrics.ValidationFailed(len(ve.Fields))
			logger.Info.Printf("SubmitRegistration: visitor %s submitted %d invalid field(s)", visitor, len(ve.Fields))
			c.HTML(http.StatusUnprocessableEntity, "registration.html", rc.formPage(flow, form.Snapshot(), nil))
		case errors.Is(err, services.ErrInvalidTransition):
			c.Redirect(http.StatusSeeOther, "/registration")
		default:
			logger.Error.Printf("SubmitRegistration: unexpected error: %v", err)
			c.String(http.StatusInternalServerError, "registration failed")
		}
		return
	}
	rc.Metrics.RegistrationSubmitted(sub.ParticipantType)

	session := sessions.Default(c)
	for _, t := range flow.DrainToasts() {
		session.AddFlash(t)
	}
	if err := session.Save(); err != nil {
		logger.Error.Printf("SubmitRegistration: Error saving session for visitor %s: %v", visitor, err)
		c.String(http.StatusInternalServerError, "Error saving session")
		return
	}

	logger.Info.Printf("SubmitRegistration: visitor %s registered as %s", visitor, sub.ParticipantType)
	c.Redirect(http.StatusSeeOther, "/registration")
}

// UpdateField stores one field value and returns the resulting page state as JSON.
func (rc *RegistrationController) UpdateField(c *gin.Context) {
	var req fieldUpdate
	if err := c.ShouldBind(&req); err != nil {
		logger.Warn.Printf("UpdateField: invalid request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "field name is required"})
		return
	}

	flow := rc.flow(c)
	if err := flow.SetField(req.Name, req.Value); err != nil {
		switch {
		case errors.Is(err, services.ErrUnknownField):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown field"})
		case errors.Is(err, services.ErrInvalidFieldValue):
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid value"})
		case errors.Is(err, services.ErrInvalidTransition):
			c.JSON(http.StatusConflict, gin.H{"error": "registration already submitted"})
		default:
			logger.Error.Printf("UpdateField: unexpected error: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		}
		return
	}

	c.JSON(http.StatusOK, flow.Snapshot())
}

// ResetRegistration brings a submitted page back to an empty form. While
// collecting it clears the form.
func (rc *RegistrationController) ResetRegistration(c *gin.Context) {
	flow := rc.flow(c)

	var err error
	if flow.State() == services.StateSubmitted {
		err = flow.Reset()
	} else {
		err = flow.ResetForm()
	}
	if err != nil {
		logger.Warn.Printf("ResetRegistration: %v", err)
	}
	c.Redirect(http.StatusSeeOther, "/registration")
}

// LiveForm upgrades to the live form channel of the visitor's page. The
// registry keeps the page while the connection is open.
func (rc *RegistrationController) LiveForm(c *gin.Context) {
	visitor := middleware.VisitorID(c)
	flow := rc.Flows.Get(visitor)
	websocket.ServeWs(c.Writer, c.Request, flow, func() {
		rc.Flows.Lookup(visitor)
	})
}

// ------------------- helpers -------------------

func (rc *RegistrationController) flow(c *gin.Context) *services.PageFlow {
	return rc.Flows.Get(middleware.VisitorID(c))
}

func (rc *RegistrationController) formPage(flow *services.PageFlow, snap services.FormSnapshot, toasts []services.Toast) gin.H {
	return gin.H{
		"Event":              models.DefaultEvent(),
		"Form":               snap,
		"Values":             snap.Values,
		"Errors":             snap.Errors,
		"VisibleGroup":       string(snap.VisibleGroup),
		"Extended":           flow.Schema().Extended(),
		"ParticipantOptions": models.ParticipantOptions,
		"InterestOptions":    models.InterestOptions,
		"HearAboutUsOptions": models.HearAboutUsOptions,
		"Toasts":             toasts,
	}
}

// popToasts reads and clears the toasts flashed into the session.
func popToasts(c *gin.Context) []services.Toast {
	session := sessions.Default(c)
	flashes := session.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := session.Save(); err != nil {
		logger.Error.Printf("popToasts: Error saving session: %v", err)
	}

	toasts := make([]services.Toast, 0, len(flashes))
	for _, f := range flashes {
		if t, ok := f.(services.Toast); ok {
			toasts = append(toasts, t)
		}
	}
	return toasts
}
