// Package services: services/validation_service.go
package services

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"fashion-registration/models"
)

// Field names, as posted by the form and reported in validation errors.
const (
	FieldFullName            = "fullName"
	FieldEmail               = "email"
	FieldPhone               = "phone"
	FieldParticipantType     = "participantType"
	FieldExperience          = "experience"
	FieldCompanyName         = "companyName"
	FieldInterests           = "interests"
	FieldMessage             = "message"
	FieldAge                 = "age"
	FieldSocialMedia         = "socialMedia"
	FieldDietaryRestrictions = "dietaryRestrictions"
	FieldEmergencyContact    = "emergencyContact"
	FieldHearAboutUs         = "hearAboutUs"
	FieldNewsletter          = "newsletter"
)

var basicFields = []string{
	FieldFullName, FieldEmail, FieldPhone, FieldParticipantType,
	FieldExperience, FieldCompanyName, FieldInterests, FieldMessage,
}

var extendedFields = []string{
	FieldAge, FieldSocialMedia, FieldDietaryRestrictions,
	FieldEmergencyContact, FieldHearAboutUs, FieldNewsletter,
}

// fieldMessages holds the message shown next to each control when its rule fails.
var fieldMessages = map[string]string{
	FieldFullName:        "Имя должно содержать минимум 2 символа",
	FieldEmail:           "Введите корректный email",
	FieldPhone:           "Введите корректный номер телефона",
	FieldParticipantType: "Выберите тип участия",
	FieldInterests:       "Выберите ваш интерес",
	FieldAge:             "Введите корректный возраст",
	FieldHearAboutUs:     "Выберите вариант из списка",
}

const msgInvalidValue = "Некорректное значение"

const (
	minAge = 1
	maxAge = 120
)

// ------------------- schema -------------------

// Schema validates raw form values into a Submission.
type Schema struct {
	extended bool
	validate *validator.Validate
}

// NewSchema builds the registration schema. With extended set the optional
// extended field set is accepted and validated as well.
func NewSchema(extended bool) *Schema {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("age", validateAge)

	return &Schema{extended: extended, validate: v}
}

// Extended reports whether the extended field set is enabled.
func (s *Schema) Extended() bool {
	return s.extended
}

// Fields lists the accepted field names in form order.
func (s *Schema) Fields() []string {
	fields := append([]string(nil), basicFields...)
	if s.extended {
		fields = append(fields, extendedFields...)
	}
	return fields
}

// Accepts reports whether name is a field of this schema.
func (s *Schema) Accepts(name string) bool {
	for _, f := range s.Fields() {
		if f == name {
			return true
		}
	}
	return false
}

// Validate checks every field independently and returns either the
// Submission or a *models.ValidationError naming all violated fields.
func (s *Schema) Validate(raw models.FormValues) (models.Submission, error) {
	fields := make(map[string]string)
	collectFieldErrors(s.validate.Struct(raw), fields)
	if s.extended {
		collectFieldErrors(s.validate.Struct(raw.Extended), fields)
	}

	if len(fields) > 0 {
		return models.Submission{}, &models.ValidationError{Fields: fields}
	}
	return s.build(raw), nil
}

// build assumes raw has passed validation.
func (s *Schema) build(raw models.FormValues) models.Submission {
	sub := models.Submission{
		FullName:        raw.FullName,
		Email:           raw.Email,
		Phone:           raw.Phone,
		ParticipantType: models.ParticipantType(raw.ParticipantType),
		Interests:       models.Interest(raw.Interests),
		Message:         raw.Message,
	}

	// only the field of the visible group is carried over
	switch Projection(sub.ParticipantType) {
	case GroupModel:
		sub.Experience = raw.Experience
	case GroupDesigner:
		sub.CompanyName = raw.CompanyName
	}

	if s.extended {
		ext := raw.Extended
		details := &models.ExtendedDetails{
			SocialMedia:         ext.SocialMedia,
			DietaryRestrictions: ext.DietaryRestrictions,
			EmergencyContact:    ext.EmergencyContact,
			HearAboutUs:         models.HearAboutUs(ext.HearAboutUs),
			Newsletter:          ext.Newsletter,
		}
		if ext.Age != "" {
			details.Age, _ = strconv.Atoi(strings.TrimSpace(ext.Age))
		}
		sub.Extended = details
	}
	return sub
}

// ------------------- helpers -------------------

// collectFieldErrors keeps the first failing rule per field.
func collectFieldErrors(err error, into map[string]string) {
	if err == nil {
		return
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return
	}
	for _, fe := range vErrs {
		name := fe.Field()
		if _, seen := into[name]; seen {
			continue
		}
		if msg, ok := fieldMessages[name]; ok {
			into[name] = msg
		} else {
			into[name] = msgInvalidValue
		}
	}
}

func validateAge(fl validator.FieldLevel) bool {
	n, err := strconv.Atoi(strings.TrimSpace(fl.Field().String()))
	return err == nil && n >= minAge && n <= maxAge
}
