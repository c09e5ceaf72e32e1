// Package models defines data structures used across the application.
// File: models/registration.go
package models

import (
	"sort"
	"strings"
)

// ----------------------- enums -----------------------

// ParticipantType is the discriminator that controls which extra fields are relevant.
type ParticipantType string

const (
	ParticipantGuest    ParticipantType = "guest"
	ParticipantModel    ParticipantType = "model"
	ParticipantDesigner ParticipantType = "designer"
)

// Interest is the visitor's main area of interest.
type Interest string

const (
	InterestHighFashion   Interest = "high-fashion"
	InterestStreetFashion Interest = "street-fashion"
	InterestEcoFashion    Interest = "eco-fashion"
)

// HearAboutUs records where the visitor learned about the event (extended form only).
type HearAboutUs string

const (
	HearSocialMedia HearAboutUs = "social-media"
	HearFriends     HearAboutUs = "friends"
	HearAdvertising HearAboutUs = "advertising"
	HearOther       HearAboutUs = "other"
)

// Option is a value/caption pair rendered as a radio button or select entry.
type Option struct {
	Value   string
	Caption string
}

// ParticipantOptions lists participant types in display order.
var ParticipantOptions = []Option{
	{Value: string(ParticipantGuest), Caption: "Гость"},
	{Value: string(ParticipantModel), Caption: "Модель"},
	{Value: string(ParticipantDesigner), Caption: "Дизайнер"},
}

// InterestOptions lists interests in display order.
var InterestOptions = []Option{
	{Value: string(InterestHighFashion), Caption: "Высокая мода"},
	{Value: string(InterestStreetFashion), Caption: "Уличная мода"},
	{Value: string(InterestEcoFashion), Caption: "Эко-мода"},
}

// HearAboutUsOptions lists the "how did you hear about us" choices.
var HearAboutUsOptions = []Option{
	{Value: string(HearSocialMedia), Caption: "Социальные сети"},
	{Value: string(HearFriends), Caption: "Друзья и знакомые"},
	{Value: string(HearAdvertising), Caption: "Реклама"},
	{Value: string(HearOther), Caption: "Другое"},
}

// ----------------------- raw form values -----------------------

// FormValues holds the raw, unvalidated values of one registration form.
// The zero value is the form's default state.
type FormValues struct {
	FullName        string `form:"fullName" json:"fullName" validate:"min=2"`
	Email           string `form:"email" json:"email" validate:"email"`
	Phone           string `form:"phone" json:"phone" validate:"min=10"`
	ParticipantType string `form:"participantType" json:"participantType" validate:"required,oneof=guest model designer"`
	Experience      string `form:"experience" json:"experience"`
	CompanyName     string `form:"companyName" json:"companyName"`
	Interests       string `form:"interests" json:"interests" validate:"required,oneof=high-fashion street-fashion eco-fashion"`
	Message         string `form:"message" json:"message"`

	// Extended is only validated when the schema runs with the extended field set.
	Extended ExtendedValues `form:"-" json:"extended" validate:"-"`
}

// ExtendedValues holds the optional fields of the extended registration form.
type ExtendedValues struct {
	Age                 string `form:"age" json:"age" validate:"omitempty,age"`
	SocialMedia         string `form:"socialMedia" json:"socialMedia"`
	DietaryRestrictions string `form:"dietaryRestrictions" json:"dietaryRestrictions"`
	EmergencyContact    string `form:"emergencyContact" json:"emergencyContact"`
	HearAboutUs         string `form:"hearAboutUs" json:"hearAboutUs" validate:"omitempty,oneof=social-media friends advertising other"`
	Newsletter          bool   `form:"newsletter" json:"newsletter"`
}

// ------------------------ validated submission -----------------------

// Submission is the validated value set of one completed registration attempt.
// Experience is only kept for models and CompanyName only for designers.
type Submission struct {
	FullName        string           `json:"fullName"`
	Email           string           `json:"email"`
	Phone           string           `json:"phone"`
	ParticipantType ParticipantType  `json:"participantType"`
	Experience      string           `json:"experience,omitempty"`
	CompanyName     string           `json:"companyName,omitempty"`
	Interests       Interest         `json:"interests"`
	Message         string           `json:"message,omitempty"`
	Extended        *ExtendedDetails `json:"extended,omitempty"`
}

// ExtendedDetails is the validated extended field set.
type ExtendedDetails struct {
	Age                 int         `json:"age,omitempty"`
	SocialMedia         string      `json:"socialMedia,omitempty"`
	DietaryRestrictions string      `json:"dietaryRestrictions,omitempty"`
	EmergencyContact    string      `json:"emergencyContact,omitempty"`
	HearAboutUs         HearAboutUs `json:"hearAboutUs,omitempty"`
	Newsletter          bool        `json:"newsletter"`
}

// ---------------------- validation error ----------------------

// ValidationError maps field names to human-readable messages.
type ValidationError struct {
	Fields map[string]string
}

// Error lists the offending fields in a stable order.
func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, name+": "+e.Fields[name])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the given field failed validation.
func (e *ValidationError) Has(field string) bool {
	_, ok := e.Fields[field]
	return ok
}
