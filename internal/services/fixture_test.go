package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/policy"
	"github.com/responsehub/backend/internal/repository"
	"github.com/stretchr/testify/require"
)

var errStoreDown = errors.New("store unavailable")

type fixture struct {
	ctx  context.Context
	repo *repository.MemoryRepository

	coordinator policy.Actor
	owner       policy.Actor
	other       policy.Actor
	public      policy.Actor

	volunteer      *models.Volunteer
	otherVolunteer *models.Volunteer
	incident       *models.Incident
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{ctx: context.Background(), repo: repository.NewMemoryRepository()}

	f.coordinator = f.actor(t, "coord", models.RoleCoordinator)
	f.owner = f.actor(t, "vol", models.RoleVolunteer)
	f.other = f.actor(t, "vol2", models.RoleVolunteer)
	f.public = f.actor(t, "citizen", models.RolePublic)

	f.volunteer = f.addVolunteer(t, f.owner.UserID)
	f.otherVolunteer = f.addVolunteer(t, f.other.UserID)
	f.incident = f.addIncident(t)
	return f
}

func (f *fixture) actor(t *testing.T, name string, role models.UserRole) policy.Actor {
	t.Helper()
	u := &models.User{Username: name, Email: name + "@example.com", Password: "x", Role: role}
	require.NoError(t, f.repo.CreateUser(f.ctx, u))
	return policy.Actor{UserID: u.ID, Role: role}
}

func (f *fixture) addVolunteer(t *testing.T, userID uint) *models.Volunteer {
	t.Helper()
	v := &models.Volunteer{UserID: userID, Skills: []string{"first aid"}, Availability: true}
	require.NoError(t, f.repo.CreateVolunteer(f.ctx, v))
	return v
}

func (f *fixture) addIncident(t *testing.T) *models.Incident {
	t.Helper()
	i := &models.Incident{
		Type:       "flood",
		Latitude:   51.5,
		Longitude:  -0.12,
		Severity:   models.SeverityHigh,
		ReportedBy: f.public.UserID,
	}
	require.NoError(t, f.repo.CreateIncident(f.ctx, i))
	return i
}

func (f *fixture) volunteerStatus(t *testing.T, id uint) models.VolunteerStatus {
	t.Helper()
	v, err := f.repo.GetVolunteer(f.ctx, id)
	require.NoError(t, err)
	return v.Status
}

func (f *fixture) incidentStatus(t *testing.T, id uint) models.IncidentStatus {
	t.Helper()
	i, err := f.repo.GetIncident(f.ctx, id)
	require.NoError(t, err)
	return i.Status
}

// failingRepo fails every incident status write, inside or outside a transaction.
type failingRepo struct {
	repository.Repository
}

func (r *failingRepo) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx repository.Repository) error {
		return fn(&failingRepo{Repository: tx})
	})
}

func (r *failingRepo) UpdateIncidentStatus(context.Context, uint, models.IncidentStatus) error {
	return fmt.Errorf("update incident: %w", errStoreDown)
}

// racingRepo runs inject inside the transaction just before the first
// incident lock is granted, as a concurrent writer that committed first would.
type racingRepo struct {
	repository.Repository
	inject func(tx repository.Repository) error
}

func (r *racingRepo) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx repository.Repository) error {
		return fn(&racingRepo{Repository: tx, inject: r.inject})
	})
}

func (r *racingRepo) GetIncidentForUpdate(ctx context.Context, id uint) (*models.Incident, error) {
	if r.inject != nil {
		inject := r.inject
		r.inject = nil
		if err := inject(r.Repository); err != nil {
			return nil, err
		}
	}
	return r.Repository.GetIncidentForUpdate(ctx, id)
}

// lockRecorder notes the kind of every row lock taken through it.
type lockRecorder struct {
	repository.Repository
	locks *[]string
}

func (r *lockRecorder) Transaction(ctx context.Context, fn func(tx repository.Repository) error) error {
	return r.Repository.Transaction(ctx, func(tx repository.Repository) error {
		return fn(&lockRecorder{Repository: tx, locks: r.locks})
	})
}

func (r *lockRecorder) GetIncidentForUpdate(ctx context.Context, id uint) (*models.Incident, error) {
	*r.locks = append(*r.locks, "incident")
	return r.Repository.GetIncidentForUpdate(ctx, id)
}

func (r *lockRecorder) GetAssignmentForUpdate(ctx context.Context, id uint) (*models.Assignment, error) {
	*r.locks = append(*r.locks, "assignment")
	return r.Repository.GetAssignmentForUpdate(ctx, id)
}

func (r *lockRecorder) GetVolunteerForUpdate(ctx context.Context, id uint) (*models.Volunteer, error) {
	*r.locks = append(*r.locks, "volunteer")
	return r.Repository.GetVolunteerForUpdate(ctx, id)
}
