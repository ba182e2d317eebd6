package services

import (
	"context"
	"errors"

	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/repository"
)

const volunteerComponent = "volunteer_service"

type VolunteerService struct {
	repo repository.Repository
}

func NewVolunteerService(repo repository.Repository) *VolunteerService {
	return &VolunteerService{repo: repo}
}

type VolunteerProfileInput struct {
	Skills           []string
	Availability     *bool
	CurrentLatitude  *float64
	CurrentLongitude *float64
	Status           *models.VolunteerStatus
}

// List returns volunteer profiles for coordinators. With onlyAssignable set
// it keeps the volunteers a new assignment could go to.
func (s *VolunteerService) List(ctx context.Context, actor policy.Actor, onlyAssignable bool) ([]models.Volunteer, error) {
	if !policy.CanListVolunteers(actor) {
		return nil, Forbidden("Only coordinators can list volunteers")
	}
	volunteers, err := s.repo.ListVolunteers(ctx, repository.VolunteerFilter{OnlyAssignable: onlyAssignable})
	if err != nil {
		return nil, internalError(err, volunteerComponent, "list volunteers")
	}
	return volunteers, nil
}

func (s *VolunteerService) GetByUserID(ctx context.Context, actor policy.Actor, userID uint) (*models.Volunteer, error) {
	if !policy.CanAccessVolunteerProfile(actor, userID) {
		return nil, Forbidden("Not authorized to view this volunteer profile")
	}
	volunteer, err := s.repo.GetVolunteerByUserID(ctx, userID)
	if err != nil {
		return nil, internalError(notFoundAs(err, "Volunteer profile not found"), volunteerComponent, "load volunteer")
	}
	return volunteer, nil
}

// Create adds the caller's own volunteer profile when registration did not.
func (s *VolunteerService) Create(ctx context.Context, actor policy.Actor, input VolunteerProfileInput) (*models.Volunteer, error) {
	if !actor.IsVolunteer() {
		return nil, Forbidden("Only volunteers can create a volunteer profile")
	}
	if input.Status != nil {
		return nil, Validation("status is managed by assignments", nil)
	}

	volunteer := &models.Volunteer{
		UserID:           actor.UserID,
		Skills:           input.Skills,
		Availability:     true,
		CurrentLatitude:  input.CurrentLatitude,
		CurrentLongitude: input.CurrentLongitude,
		Status:           models.VolunteerAvailable,
	}
	if input.Availability != nil {
		volunteer.Availability = *input.Availability
	}
	if err := volunteer.Validate(); err != nil {
		return nil, Validation("Invalid volunteer profile", err)
	}

	if err := s.repo.CreateVolunteer(ctx, volunteer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, Conflict("Volunteer profile already exists")
		}
		return nil, internalError(notFoundAs(err, "User not found"), volunteerComponent, "create volunteer")
	}

	logger.WithUser(actor.UserID).WithField("volunteer_id", volunteer.ID).Info("Volunteer profile created")

	return s.GetByUserID(ctx, actor, actor.UserID)
}

// Update changes a profile. Volunteers may edit their own skills, availability
// and location; only coordinators may override the status.
func (s *VolunteerService) Update(ctx context.Context, actor policy.Actor, userID uint, input VolunteerProfileInput) (*models.Volunteer, error) {
	if !policy.CanAccessVolunteerProfile(actor, userID) {
		return nil, Forbidden("Not authorized to update this volunteer profile")
	}
	if input.Status != nil && !actor.IsCoordinator() {
		return nil, Forbidden("Only coordinators can change volunteer status")
	}

	err := s.repo.Transaction(ctx, func(tx repository.Repository) error {
		profile, err := tx.GetVolunteerByUserID(ctx, userID)
		if err != nil {
			return notFoundAs(err, "Volunteer profile not found")
		}
		volunteer, err := tx.GetVolunteerForUpdate(ctx, profile.ID)
		if err != nil {
			return notFoundAs(err, "Volunteer profile not found")
		}

		if input.Skills != nil {
			volunteer.Skills = input.Skills
		}
		if input.Availability != nil {
			volunteer.Availability = *input.Availability
		}
		if input.CurrentLatitude != nil {
			volunteer.CurrentLatitude = input.CurrentLatitude
		}
		if input.CurrentLongitude != nil {
			volunteer.CurrentLongitude = input.CurrentLongitude
		}
		if input.Status != nil {
			volunteer.Status = *input.Status
		}

		if err := volunteer.Validate(); err != nil {
			return Validation("Invalid volunteer profile", err)
		}
		return tx.UpdateVolunteer(ctx, volunteer)
	})
	if err != nil {
		return nil, internalError(err, volunteerComponent, "update volunteer")
	}

	logger.WithUser(actor.UserID).WithField("profile_user_id", userID).Info("Volunteer profile updated")

	return s.GetByUserID(ctx, actor, userID)
}
