// Package policy holds the role checks that decide who may see or change what.
package policy

import "github.com/responsehub/backend/internal/models"

// Actor is the authenticated caller of a request.
type Actor struct {
	UserID uint
	Role   models.UserRole
}

func (a Actor) IsCoordinator() bool {
	return a.Role == models.RoleCoordinator
}

func (a Actor) IsVolunteer() bool {
	return a.Role == models.RoleVolunteer
}

// CanManageAssignments covers creating and deleting assignments.
func CanManageAssignments(a Actor) bool {
	return a.IsCoordinator()
}

func CanManageIncidents(a Actor) bool {
	return a.IsCoordinator()
}

func CanListVolunteers(a Actor) bool {
	return a.IsCoordinator()
}

// OwnsAssignment is true when the assignment's volunteer profile belongs to the actor.
// The assignment must carry its Volunteer relation.
func OwnsAssignment(a Actor, assignment *models.Assignment) bool {
	if assignment == nil || assignment.Volunteer == nil {
		return false
	}
	return assignment.Volunteer.UserID == a.UserID
}

// CanViewAssignment is the visibility rule: coordinators see every
// assignment, everyone else only those linked to their own profile.
func CanViewAssignment(a Actor, assignment *models.Assignment) bool {
	return a.IsCoordinator() || OwnsAssignment(a, assignment)
}

func CanTransition(a Actor, assignment *models.Assignment) bool {
	return a.IsCoordinator() || OwnsAssignment(a, assignment)
}

// CanAccessVolunteerProfile allows the profile's own user and coordinators.
func CanAccessVolunteerProfile(a Actor, userID uint) bool {
	return a.IsCoordinator() || a.UserID == userID
}

// VisibleAssignments filters a list down to what the actor may see.
func VisibleAssignments(a Actor, assignments []models.Assignment) []models.Assignment {
	if a.IsCoordinator() {
		return assignments
	}
	visible := make([]models.Assignment, 0, len(assignments))
	for i := range assignments {
		if OwnsAssignment(a, &assignments[i]) {
			visible = append(visible, assignments[i])
		}
	}
	return visible
}
