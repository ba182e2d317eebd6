package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssignmentTransitions(t *testing.T) {
	tests := []struct {
		from, to AssignmentStatus
		legal    bool
	}{
		{AssignmentAssigned, AssignmentAccepted, true},
		{AssignmentAssigned, AssignmentDeclined, true},
		{AssignmentAssigned, AssignmentCompleted, false},
		{AssignmentAccepted, AssignmentCompleted, true},
		{AssignmentAccepted, AssignmentDeclined, true},
		{AssignmentAccepted, AssignmentAssigned, false},
		{AssignmentCompleted, AssignmentAccepted, false},
		{AssignmentDeclined, AssignmentAccepted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.legal, tt.from.CanTransitionTo(tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestAssignmentStatusClasses(t *testing.T) {
	assert.True(t, AssignmentAssigned.Active())
	assert.True(t, AssignmentAccepted.Active())
	assert.True(t, AssignmentCompleted.Terminal())
	assert.True(t, AssignmentDeclined.Terminal())
	assert.False(t, AssignmentStatus("done").Valid())
}

func TestVolunteerCanBeAssigned(t *testing.T) {
	assert.True(t, (&Volunteer{Availability: true, Status: VolunteerAvailable}).CanBeAssigned())
	assert.False(t, (&Volunteer{Availability: false, Status: VolunteerAvailable}).CanBeAssigned())
	assert.False(t, (&Volunteer{Availability: true, Status: VolunteerAssigned}).CanBeAssigned())
	assert.False(t, (&Volunteer{Availability: true, Status: VolunteerUnavailable}).CanBeAssigned())
}

func TestIncidentValidate(t *testing.T) {
	valid := Incident{Type: "fire", Latitude: 10, Longitude: 20, Severity: SeverityLow}
	assert.NoError(t, valid.Validate())

	noType := valid
	noType.Type = ""
	assert.Error(t, noType.Validate())

	badLng := valid
	badLng.Longitude = 181
	assert.Error(t, badLng.Validate())

	badStatus := valid
	badStatus.Status = "closed"
	assert.Error(t, badStatus.Validate())

	inProgress := valid
	inProgress.Status = IncidentInProgress
	assert.NoError(t, inProgress.Validate())
}

func TestUserRoleValid(t *testing.T) {
	assert.True(t, RoleCoordinator.Valid())
	assert.True(t, RolePublic.Valid())
	assert.False(t, UserRole("admin").Valid())
}
