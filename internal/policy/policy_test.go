package policy

import (
	"testing"

	"github.com/responsehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
)

func assignmentFor(userID uint) *models.Assignment {
	return &models.Assignment{
		ID:        1,
		Volunteer: &models.Volunteer{ID: 10, UserID: userID},
	}
}

func TestCanViewAssignment(t *testing.T) {
	coordinator := Actor{UserID: 1, Role: models.RoleCoordinator}
	owner := Actor{UserID: 2, Role: models.RoleVolunteer}
	other := Actor{UserID: 3, Role: models.RoleVolunteer}
	public := Actor{UserID: 4, Role: models.RolePublic}

	a := assignmentFor(2)

	assert.True(t, CanViewAssignment(coordinator, a))
	assert.True(t, CanViewAssignment(owner, a))
	assert.False(t, CanViewAssignment(other, a))
	assert.False(t, CanViewAssignment(public, a))
}

func TestOwnershipNeedsVolunteerRelation(t *testing.T) {
	actor := Actor{UserID: 2, Role: models.RoleVolunteer}

	assert.False(t, OwnsAssignment(actor, &models.Assignment{VolunteerID: 10}))
	assert.False(t, OwnsAssignment(actor, nil))
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role   models.UserRole
		manage bool
	}{
		{models.RoleCoordinator, true},
		{models.RoleVolunteer, false},
		{models.RolePublic, false},
	}

	for _, tt := range tests {
		actor := Actor{UserID: 9, Role: tt.role}
		assert.Equal(t, tt.manage, CanManageAssignments(actor), "role %s", tt.role)
		assert.Equal(t, tt.manage, CanManageIncidents(actor), "role %s", tt.role)
		assert.Equal(t, tt.manage, CanListVolunteers(actor), "role %s", tt.role)
	}
}

func TestCanTransition(t *testing.T) {
	a := assignmentFor(2)

	assert.True(t, CanTransition(Actor{UserID: 1, Role: models.RoleCoordinator}, a))
	assert.True(t, CanTransition(Actor{UserID: 2, Role: models.RoleVolunteer}, a))
	assert.False(t, CanTransition(Actor{UserID: 3, Role: models.RolePublic}, a))
}

func TestCanAccessVolunteerProfile(t *testing.T) {
	assert.True(t, CanAccessVolunteerProfile(Actor{UserID: 5, Role: models.RoleVolunteer}, 5))
	assert.False(t, CanAccessVolunteerProfile(Actor{UserID: 5, Role: models.RoleVolunteer}, 6))
	assert.True(t, CanAccessVolunteerProfile(Actor{UserID: 1, Role: models.RoleCoordinator}, 6))
}

func TestVisibleAssignments(t *testing.T) {
	list := []models.Assignment{*assignmentFor(2), *assignmentFor(3), *assignmentFor(2)}
	list[1].ID = 2
	list[2].ID = 3

	mine := VisibleAssignments(Actor{UserID: 2, Role: models.RoleVolunteer}, list)
	assert.Len(t, mine, 2)
	for _, a := range mine {
		assert.Equal(t, uint(2), a.Volunteer.UserID)
	}

	all := VisibleAssignments(Actor{UserID: 1, Role: models.RoleCoordinator}, list)
	assert.Len(t, all, 3)
}
