package services

import (
	"context"
	"fmt"

	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/repository"
)

const assignmentComponent = "assignment_service"

// AssignmentService owns the assignment lifecycle and keeps the linked
// incident and volunteer statuses in step with it. Every operation runs in
// a single store transaction. Rows are locked in the order incident,
// assignment, volunteer.
type AssignmentService struct {
	repo   repository.Repository
	strict bool
}

// NewAssignmentService builds the lifecycle manager. With strictTransitions
// unset, any known status is accepted regardless of the current one.
func NewAssignmentService(repo repository.Repository, strictTransitions bool) *AssignmentService {
	return &AssignmentService{repo: repo, strict: strictTransitions}
}

// Create links an available volunteer to an incident.
func (s *AssignmentService) Create(ctx context.Context, actor policy.Actor, incidentID, volunteerID uint) (*models.Assignment, error) {
	if !policy.CanManageAssignments(actor) {
		return nil, Forbidden("Only coordinators can create assignments")
	}
	if incidentID == 0 || volunteerID == 0 {
		return nil, Validation("incident_id and volunteer_id are required", nil)
	}

	var created models.Assignment
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetIncidentForUpdate(ctx, incidentID); err != nil {
			return notFoundAs(err, "Incident not found")
		}
		volunteer, err := tx.GetVolunteerForUpdate(ctx, volunteerID)
		if err != nil {
			return notFoundAs(err, "Volunteer not found")
		}

		if !volunteer.CanBeAssigned() {
			return Conflict("Volunteer is not available")
		}

		exists, err := tx.HasActiveAssignment(ctx, incidentID, volunteerID)
		if err != nil {
			return err
		}
		if exists {
			return Conflict("Volunteer is already assigned to this incident")
		}

		created = models.Assignment{
			IncidentID:  incidentID,
			VolunteerID: volunteerID,
			AssignedBy:  actor.UserID,
			Status:      models.AssignmentAssigned,
		}
		if err := tx.CreateAssignment(ctx, &created); err != nil {
			return err
		}
		if err := tx.UpdateVolunteerStatus(ctx, volunteerID, models.VolunteerAssigned); err != nil {
			return err
		}
		return tx.UpdateIncidentStatus(ctx, incidentID, models.IncidentAssigned)
	})
	if err != nil {
		return nil, internalError(err, assignmentComponent, "create assignment")
	}

	logger.WithAssignment(created.ID, actor.UserID, "create").Info("Assignment created")

	return s.reload(ctx, created.ID)
}

// Transition moves an assignment to status and applies its side effects on
// the linked volunteer and incident.
func (s *AssignmentService) Transition(ctx context.Context, actor policy.Actor, assignmentID uint, status models.AssignmentStatus) (*models.Assignment, error) {
	if !status.Valid() {
		return nil, Validation(fmt.Sprintf("Invalid status %q", status), nil)
	}

	var previous models.AssignmentStatus
	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		assignment, err := lockAssignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		volunteer, err := tx.GetVolunteerForUpdate(ctx, assignment.VolunteerID)
		if err != nil {
			return notFoundAs(err, "Volunteer not found")
		}
		assignment.Volunteer = volunteer

		if !policy.CanTransition(actor, assignment) {
			return Forbidden("Not authorized to update this assignment")
		}
		if s.strict && !assignment.Status.CanTransitionTo(status) {
			return Conflict(fmt.Sprintf("Cannot change assignment status from %s to %s", assignment.Status, status))
		}
		previous = assignment.Status

		if err := tx.UpdateAssignmentStatus(ctx, assignmentID, status); err != nil {
			return err
		}
		return propagate(ctx, tx, assignment, status)
	})
	if err != nil {
		return nil, internalError(err, assignmentComponent, "update assignment")
	}

	logger.WithAssignment(assignmentID, actor.UserID, "transition").WithField("from", previous).WithField("to", status).Info("Assignment status changed")

	return s.reload(ctx, assignmentID)
}

// lockAssignment locks the assignment's incident before the assignment row
// itself. The incident and volunteer ids of an assignment never change, so
// the unlocked read is only used to find the incident.
func lockAssignment(ctx context.Context, tx repository.Repository, id uint) (*models.Assignment, error) {
	current, err := tx.GetAssignment(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Assignment not found")
	}
	if _, err := tx.GetIncidentForUpdate(ctx, current.IncidentID); err != nil {
		return nil, notFoundAs(err, "Incident not found")
	}
	assignment, err := tx.GetAssignmentForUpdate(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "Assignment not found")
	}
	return assignment, nil
}

// propagate applies the volunteer and incident updates implied by entering status.
func propagate(ctx context.Context, tx repository.Repository, assignment *models.Assignment, status models.AssignmentStatus) error {
	var (
		volunteerStatus models.VolunteerStatus
		incidentStatus  models.IncidentStatus
	)
	switch status {
	case models.AssignmentAccepted:
		volunteerStatus, incidentStatus = models.VolunteerAssigned, models.IncidentInProgress
	case models.AssignmentCompleted:
		volunteerStatus, incidentStatus = models.VolunteerAvailable, models.IncidentResolved
	case models.AssignmentDeclined:
		volunteerStatus = models.VolunteerAvailable
	default:
		return nil
	}

	if err := tx.UpdateVolunteerStatus(ctx, assignment.VolunteerID, volunteerStatus); err != nil {
		return err
	}
	if incidentStatus == "" {
		return nil
	}
	return tx.UpdateIncidentStatus(ctx, assignment.IncidentID, incidentStatus)
}

// Delete removes an assignment and fully reverts its volunteer and incident,
// whatever state the assignment was in.
func (s *AssignmentService) Delete(ctx context.Context, actor policy.Actor, assignmentID uint) error {
	if !policy.CanManageAssignments(actor) {
		return Forbidden("Only coordinators can delete assignments")
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		assignment, err := lockAssignment(ctx, tx, assignmentID)
		if err != nil {
			return err
		}
		if err := tx.UpdateIncidentStatus(ctx, assignment.IncidentID, models.IncidentReported); err != nil {
			return notFoundAs(err, "Incident not found")
		}
		if err := tx.UpdateVolunteerStatus(ctx, assignment.VolunteerID, models.VolunteerAvailable); err != nil {
			return notFoundAs(err, "Volunteer not found")
		}
		return tx.DeleteAssignment(ctx, assignmentID)
	})
	if err != nil {
		return internalError(err, assignmentComponent, "delete assignment")
	}

	logger.WithAssignment(assignmentID, actor.UserID, "delete").Info("Assignment deleted")
	return nil
}

// List returns every assignment for coordinators and the caller's own for
// everyone else. Newest first.
func (s *AssignmentService) List(ctx context.Context, actor policy.Actor, filter repository.AssignmentFilter) ([]models.Assignment, error) {
	if !actor.IsCoordinator() {
		volunteer, err := s.repo.GetVolunteerByUserID(ctx, actor.UserID)
		if err != nil {
			return nil, internalError(notFoundAs(err, "Volunteer profile not found"), assignmentComponent, "load volunteer profile")
		}
		filter.VolunteerID = volunteer.ID
	}

	assignments, err := s.repo.ListAssignments(ctx, filter)
	if err != nil {
		return nil, internalError(err, assignmentComponent, "list assignments")
	}
	return policy.VisibleAssignments(actor, assignments), nil
}

func (s *AssignmentService) Get(ctx context.Context, actor policy.Actor, assignmentID uint) (*models.Assignment, error) {
	assignment, err := s.reload(ctx, assignmentID)
	if err != nil {
		return nil, err
	}
	if !policy.CanViewAssignment(actor, assignment) {
		return nil, Forbidden("Not authorized to view this assignment")
	}
	return assignment, nil
}

func (s *AssignmentService) reload(ctx context.Context, id uint) (*models.Assignment, error) {
	assignment, err := s.repo.GetAssignment(ctx, id)
	if err != nil {
		return nil, internalError(notFoundAs(err, "Assignment not found"), assignmentComponent, "load assignment")
	}
	return assignment, nil
}
