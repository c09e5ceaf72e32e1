// Package services: services/form_controller.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"fashion-registration/logger"
	"fashion-registration/models"
)

var (
	// ErrUnknownField is returned by SetField for names outside the schema.
	ErrUnknownField = errors.New("unknown form field")
	// ErrInvalidFieldValue is returned when a value cannot be stored in its field.
	ErrInvalidFieldValue = errors.New("invalid field value")
)

// FormSnapshot is a copy of the controller state handed to renderers and observers.
type FormSnapshot struct {
	Values       models.FormValues `json:"values"`
	Errors       map[string]string `json:"errors"`
	VisibleGroup FieldGroup        `json:"visibleGroup"`
}

// FormController holds the values and validation errors of one registration form.
type FormController struct {
	// pubMu is held from taking a snapshot until observers have received it,
	// so observers see changes in the order they were made.
	pubMu     sync.Mutex
	mu        sync.Mutex
	schema    *Schema
	notifier  Notifier
	onSuccess func(models.Submission)

	values models.FormValues
	errors map[string]string

	observers    map[int]func(FormSnapshot)
	nextObserver int
}

// NewFormController returns a controller in its default state. onSuccess is
// called once per successful Submit, before Submit returns.
func NewFormController(schema *Schema, notifier Notifier, onSuccess func(models.Submission)) *FormController {
	return &FormController{
		schema:    schema,
		notifier:  notifier,
		onSuccess: onSuccess,
		observers: make(map[int]func(FormSnapshot)),
	}
}

// ------------------- operations -------------------

// SetField stores one value. It does not validate.
func (f *FormController) SetField(name, value string) error {
	return f.SetFields(map[string]string{name: value})
}

// SetFields stores several values at once. Either every value is stored or,
// when one name or value is rejected, none is.
func (f *FormController) SetFields(values map[string]string) error {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	for name, value := range values {
		if err := f.check(name, value); err != nil {
			f.mu.Unlock()
			return err
		}
	}
	for name, value := range values {
		f.assign(name, value)
	}
	snap := f.snapshotLocked()
	f.mu.Unlock()

	logger.Debug.Printf("FormController.SetFields: %d field(s) updated", len(values))
	f.publish(snap)
	return nil
}

// Submit validates the current values. On success the toast is shown, the
// captured data is logged and onSuccess receives the submission. On failure
// the errors are kept for display.
func (f *FormController) Submit() (models.Submission, error) {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	sub, err := f.schema.Validate(f.values)
	if err != nil {
		var ve *models.ValidationError
		if errors.As(err, &ve) {
			f.errors = copyErrors(ve.Fields)
		}
		snap := f.snapshotLocked()
		f.mu.Unlock()

		logger.Info.Printf("FormController.Submit: rejected, %d field(s) invalid", len(snap.Errors))
		f.publish(snap)
		return models.Submission{}, err
	}
	f.errors = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	if f.notifier != nil {
		f.notifier.Notify(RegistrationToast)
	}
	logger.Info.Printf("FormController.Submit: captured registration %+v", sub)
	if f.onSuccess != nil {
		f.onSuccess(sub)
	}
	f.publish(snap)
	return sub, nil
}

// Reset restores the default values and clears errors.
func (f *FormController) Reset() {
	f.pubMu.Lock()
	defer f.pubMu.Unlock()

	f.mu.Lock()
	f.values = models.FormValues{}
	f.errors = nil
	snap := f.snapshotLocked()
	f.mu.Unlock()

	logger.Debug.Println("FormController.Reset: form cleared")
	f.publish(snap)
}

// Snapshot returns a copy of the current state.
func (f *FormController) Snapshot() FormSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// Subscribe registers an observer called after every SetField, Submit and
// Reset. Observers must not call back into the controller. The returned
// function removes it.
func (f *FormController) Subscribe(fn func(FormSnapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.nextObserver
	f.nextObserver++
	f.observers[id] = fn
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.observers, id)
	}
}

// ------------------- internals -------------------

func (f *FormController) snapshotLocked() FormSnapshot {
	return FormSnapshot{
		Values:       f.values,
		Errors:       copyErrors(f.errors),
		VisibleGroup: Projection(models.ParticipantType(f.values.ParticipantType)),
	}
}

func (f *FormController) publish(snap FormSnapshot) {
	f.mu.Lock()
	observers := make([]func(FormSnapshot), 0, len(f.observers))
	for _, fn := range f.observers {
		observers = append(observers, fn)
	}
	f.mu.Unlock()

	for _, fn := range observers {
		fn(snap)
	}
}

// check reports whether value can be stored in the named field.
func (f *FormController) check(name, value string) error {
	if !f.schema.Accepts(name) {
		return fmt.Errorf("%w: %q", ErrUnknownField, name)
	}
	if name == FieldNewsletter {
		if _, err := parseFlag(value); err != nil {
			return err
		}
	}
	return nil
}

// assign stores a value that has passed check.
func (f *FormController) assign(name, value string) {
	v := &f.values
	switch name {
	case FieldFullName:
		v.FullName = value
	case FieldEmail:
		v.Email = value
	case FieldPhone:
		v.Phone = value
	case FieldParticipantType:
		v.ParticipantType = value
	case FieldExperience:
		v.Experience = value
	case FieldCompanyName:
		v.CompanyName = value
	case FieldInterests:
		v.Interests = value
	case FieldMessage:
		v.Message = value
	case FieldAge:
		v.Extended.Age = value
	case FieldSocialMedia:
		v.Extended.SocialMedia = value
	case FieldDietaryRestrictions:
		v.Extended.DietaryRestrictions = value
	case FieldEmergencyContact:
		v.Extended.EmergencyContact = value
	case FieldHearAboutUs:
		v.Extended.HearAboutUs = value
	case FieldNewsletter:
		v.Extended.Newsletter, _ = parseFlag(value)
	}
}

// parseFlag accepts the values browsers and JSON clients send for checkboxes.
func parseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "on", "1", "yes":
		return true, nil
	case "false", "off", "0", "no", "":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidFieldValue, value)
}

func copyErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return map[string]string{}
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
