// file: services/projection_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fashion-registration/models"
)

// Test: each participant type reveals at most one group
func TestProjection(t *testing.T) {
	assert.Equal(t, GroupNone, Projection(models.ParticipantGuest))
	assert.Equal(t, GroupModel, Projection(models.ParticipantModel))
	assert.Equal(t, GroupDesigner, Projection(models.ParticipantDesigner))
	assert.Equal(t, GroupNone, Projection(""))
	assert.Equal(t, GroupNone, Projection("photographer"))
}

// Test: projection depends on the participant type alone
func TestProjection_Pure(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, GroupModel, Projection(models.ParticipantModel))
	}
}

// Test: group field lists
func TestFieldGroup_Fields(t *testing.T) {
	assert.Equal(t, []string{"experience"}, GroupModel.Fields())
	assert.Equal(t, []string{"companyName"}, GroupDesigner.Fields())
	assert.Empty(t, GroupNone.Fields())
}
