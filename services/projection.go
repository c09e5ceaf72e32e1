// Package services: services/projection.go
package services

import "fashion-registration/models"

// FieldGroup identifies the participant-specific field group shown on the form.
type FieldGroup string

const (
	GroupNone     FieldGroup = "none"
	GroupModel    FieldGroup = "model"
	GroupDesigner FieldGroup = "designer"
)

// Projection maps a participant type to the single extra field group that is
// visible for it. Guests and unknown types get no extra group.
func Projection(pt models.ParticipantType) FieldGroup {
	switch pt {
	case models.ParticipantModel:
		return GroupModel
	case models.ParticipantDesigner:
		return GroupDesigner
	default:
		return GroupNone
	}
}

// Fields returns the form fields that belong to the group.
func (g FieldGroup) Fields() []string {
	switch g {
	case GroupModel:
		return []string{FieldExperience}
	case GroupDesigner:
		return []string{FieldCompanyName}
	default:
		return nil
	}
}
