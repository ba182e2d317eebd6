package services

import (
	"context"

	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/repository"
)

const incidentComponent = "incident_service"

type IncidentService struct {
	repo repository.Repository
}

func NewIncidentService(repo repository.Repository) *IncidentService {
	return &IncidentService{repo: repo}
}

type CreateIncidentInput struct {
	Type        string
	Latitude    float64
	Longitude   float64
	Description string
	Severity    models.IncidentSeverity
}

// UpdateIncidentInput carries the fields a coordinator may change. Nil fields
// are left alone.
type UpdateIncidentInput struct {
	Type        *string
	Latitude    *float64
	Longitude   *float64
	Description *string
	Severity    *models.IncidentSeverity
	Status      *models.IncidentStatus
}

func (s *IncidentService) List(ctx context.Context) ([]models.Incident, error) {
	incidents, err := s.repo.ListIncidents(ctx)
	if err != nil {
		return nil, internalError(err, incidentComponent, "list incidents")
	}
	return incidents, nil
}

func (s *IncidentService) Get(ctx context.Context, id uint) (*models.Incident, error) {
	incident, err := s.repo.GetIncident(ctx, id)
	if err != nil {
		return nil, internalError(notFoundAs(err, "Incident not found"), incidentComponent, "load incident")
	}
	return incident, nil
}

// Create records a new incident reported by the actor. New incidents always
// start out reported.
func (s *IncidentService) Create(ctx context.Context, actor policy.Actor, input CreateIncidentInput) (*models.Incident, error) {
	incident := &models.Incident{
		Type:        input.Type,
		Latitude:    input.Latitude,
		Longitude:   input.Longitude,
		Description: input.Description,
		Severity:    input.Severity,
		Status:      models.IncidentReported,
		ReportedBy:  actor.UserID,
	}
	if err := incident.Validate(); err != nil {
		return nil, Validation("Invalid incident", err)
	}

	if err := s.repo.CreateIncident(ctx, incident); err != nil {
		return nil, internalError(notFoundAs(err, "Reporter not found"), incidentComponent, "create incident")
	}

	logger.WithUser(actor.UserID).WithField("incident_id", incident.ID).Info("Incident reported")

	return s.Get(ctx, incident.ID)
}

func (s *IncidentService) Update(ctx context.Context, actor policy.Actor, id uint, input UpdateIncidentInput) (*models.Incident, error) {
	if !policy.CanManageIncidents(actor) {
		return nil, Forbidden("Only coordinators can update incidents")
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		incident, err := tx.GetIncidentForUpdate(ctx, id)
		if err != nil {
			return notFoundAs(err, "Incident not found")
		}

		if input.Type != nil {
			incident.Type = *input.Type
		}
		if input.Latitude != nil {
			incident.Latitude = *input.Latitude
		}
		if input.Longitude != nil {
			incident.Longitude = *input.Longitude
		}
		if input.Description != nil {
			incident.Description = *input.Description
		}
		if input.Severity != nil {
			incident.Severity = *input.Severity
		}
		if input.Status != nil {
			incident.Status = *input.Status
		}

		if err := incident.Validate(); err != nil {
			return Validation("Invalid incident", err)
		}
		return tx.UpdateIncident(ctx, incident)
	})
	if err != nil {
		return nil, internalError(err, incidentComponent, "update incident")
	}

	logger.WithUser(actor.UserID).WithField("incident_id", id).Info("Incident updated")

	return s.Get(ctx, id)
}

// Delete removes an incident together with its assignments. Volunteers held
// by an active assignment are released.
func (s *IncidentService) Delete(ctx context.Context, actor policy.Actor, id uint) error {
	if !policy.CanManageIncidents(actor) {
		return Forbidden("Only coordinators can delete incidents")
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		// Holding the incident lock blocks new assignments to it, so the list
		// below is complete.
		if _, err := tx.GetIncidentForUpdate(ctx, id); err != nil {
			return notFoundAs(err, "Incident not found")
		}
		assignments, err := tx.ListAssignments(ctx, repository.AssignmentFilter{IncidentID: id})
		if err != nil {
			return err
		}
		for _, a := range assignments {
			if err := tx.DeleteAssignment(ctx, a.ID); err != nil {
				return err
			}
		}
		for _, a := range assignments {
			if !a.Status.Active() {
				continue
			}
			if _, err := tx.GetVolunteerForUpdate(ctx, a.VolunteerID); err != nil {
				return notFoundAs(err, "Volunteer not found")
			}
			if err := tx.UpdateVolunteerStatus(ctx, a.VolunteerID, models.VolunteerAvailable); err != nil {
				return err
			}
		}
		return tx.DeleteIncident(ctx, id)
	})
	if err != nil {
		return internalError(err, incidentComponent, "delete incident")
	}

	logger.WithUser(actor.UserID).WithField("incident_id", id).Info("Incident deleted")
	return nil
}
