package services

import (
	"github.com/stretchr/testify/mock"

	"fashion-registration/models"
)

// Ensure MockMetrics implements MetricsPublisher
var _ MetricsPublisher = (*MockMetrics)(nil)

// MockMetrics is a mock implementation for testing and extends `mock.Mock`
type MockMetrics struct {
	mock.Mock
}

// RegistrationSubmitted (Mocked)
func (m *MockMetrics) RegistrationSubmitted(pt models.ParticipantType) {
	m.Called(pt)
}

// ValidationFailed (Mocked)
func (m *MockMetrics) ValidationFailed(fieldCount int) {
	m.Called(fieldCount)
}
