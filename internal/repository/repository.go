package repository

import (
	"context"
	"errors"

	"github.com/responsehub/backend/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// AssignmentFilter narrows ListAssignments. Zero values match everything.
type AssignmentFilter struct {
	IncidentID  uint
	VolunteerID uint
}

// VolunteerFilter narrows ListVolunteers.
type VolunteerFilter struct {
	OnlyAssignable bool
}

// Repository is the entity store for users, incidents, volunteers and assignments.
//
// Methods called on the Repository passed to Transaction's callback run inside
// that transaction. The ForUpdate variants take a row lock so that a
// check-then-set sequence cannot interleave with another transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(tx Repository) error) error
	Ping(ctx context.Context) error

	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	CreateIncident(ctx context.Context, incident *models.Incident) error
	GetIncident(ctx context.Context, id uint) (*models.Incident, error)
	GetIncidentForUpdate(ctx context.Context, id uint) (*models.Incident, error)
	ListIncidents(ctx context.Context) ([]models.Incident, error)
	UpdateIncident(ctx context.Context, incident *models.Incident) error
	UpdateIncidentStatus(ctx context.Context, id uint, status models.IncidentStatus) error
	DeleteIncident(ctx context.Context, id uint) error

	CreateVolunteer(ctx context.Context, volunteer *models.Volunteer) error
	GetVolunteer(ctx context.Context, id uint) (*models.Volunteer, error)
	GetVolunteerForUpdate(ctx context.Context, id uint) (*models.Volunteer, error)
	GetVolunteerByUserID(ctx context.Context, userID uint) (*models.Volunteer, error)
	ListVolunteers(ctx context.Context, filter VolunteerFilter) ([]models.Volunteer, error)
	UpdateVolunteer(ctx context.Context, volunteer *models.Volunteer) error
	UpdateVolunteerStatus(ctx context.Context, id uint, status models.VolunteerStatus) error

	CreateAssignment(ctx context.Context, assignment *models.Assignment) error
	GetAssignment(ctx context.Context, id uint) (*models.Assignment, error)
	GetAssignmentForUpdate(ctx context.Context, id uint) (*models.Assignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error)
	// HasActiveAssignment reports whether a non-declined assignment links the pair.
	HasActiveAssignment(ctx context.Context, incidentID, volunteerID uint) (bool, error)
	UpdateAssignmentStatus(ctx context.Context, id uint, status models.AssignmentStatus) error
	DeleteAssignment(ctx context.Context, id uint) error
}
