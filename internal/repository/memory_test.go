package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/responsehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedMemory(t *testing.T) (*MemoryRepository, *models.User, *models.Incident, *models.Volunteer) {
	t.Helper()
	ctx := context.Background()
	repo := NewMemoryRepository()

	coordinator := &models.User{Username: "coord", Email: "coord@example.com", Password: "x", Role: models.RoleCoordinator}
	require.NoError(t, repo.CreateUser(ctx, coordinator))

	volUser := &models.User{Username: "vol", Email: "vol@example.com", Password: "x", Role: models.RoleVolunteer}
	require.NoError(t, repo.CreateUser(ctx, volUser))

	volunteer := &models.Volunteer{UserID: volUser.ID, Availability: true, Skills: []string{"first aid"}}
	require.NoError(t, repo.CreateVolunteer(ctx, volunteer))

	incident := &models.Incident{Type: "flood", Latitude: 1, Longitude: 2, Severity: models.SeverityHigh, ReportedBy: coordinator.ID}
	require.NoError(t, repo.CreateIncident(ctx, incident))

	return repo, coordinator, incident, volunteer
}

func TestMemoryCreateDefaults(t *testing.T) {
	_, _, incident, volunteer := seedMemory(t)

	assert.Equal(t, models.IncidentReported, incident.Status)
	assert.Equal(t, models.VolunteerAvailable, volunteer.Status)
	assert.NotZero(t, incident.ID)
	assert.NotZero(t, volunteer.ID)
}

func TestMemoryDuplicateUser(t *testing.T) {
	repo, _, _, _ := seedMemory(t)

	err := repo.CreateUser(context.Background(), &models.User{Username: "coord", Email: "other@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)

	err = repo.CreateUser(context.Background(), &models.User{Username: "other", Email: "vol@example.com"})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryDuplicateVolunteerProfile(t *testing.T) {
	repo, _, _, volunteer := seedMemory(t)

	err := repo.CreateVolunteer(context.Background(), &models.Volunteer{UserID: volunteer.UserID})
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestMemoryTransactionRollback(t *testing.T) {
	repo, coordinator, incident, volunteer := seedMemory(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := repo.Transaction(ctx, func(tx Repository) error {
		require.NoError(t, tx.UpdateVolunteerStatus(ctx, volunteer.ID, models.VolunteerAssigned))
		require.NoError(t, tx.UpdateIncidentStatus(ctx, incident.ID, models.IncidentAssigned))
		require.NoError(t, tx.CreateAssignment(ctx, &models.Assignment{
			IncidentID: incident.ID, VolunteerID: volunteer.ID, AssignedBy: coordinator.ID,
		}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	v, err := repo.GetVolunteer(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, models.VolunteerAvailable, v.Status)

	i, err := repo.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	assert.Equal(t, models.IncidentReported, i.Status)
	assert.Empty(t, i.Assignments)

	all, err := repo.ListAssignments(ctx, AssignmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMemoryTransactionCommit(t *testing.T) {
	repo, coordinator, incident, volunteer := seedMemory(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx Repository) error {
		return tx.CreateAssignment(ctx, &models.Assignment{
			IncidentID: incident.ID, VolunteerID: volunteer.ID, AssignedBy: coordinator.ID,
		})
	})
	require.NoError(t, err)

	i, err := repo.GetIncident(ctx, incident.ID)
	require.NoError(t, err)
	require.Len(t, i.Assignments, 1)
	assert.Equal(t, models.AssignmentAssigned, i.Assignments[0].Status)
	require.NotNil(t, i.Assignments[0].Volunteer)
	require.NotNil(t, i.Assignments[0].Volunteer.User)
	assert.Equal(t, "vol", i.Assignments[0].Volunteer.User.Username)
	require.NotNil(t, i.Reporter)
	assert.Equal(t, "coord", i.Reporter.Username)
}

func TestMemoryHasActiveAssignmentIgnoresDeclined(t *testing.T) {
	repo, coordinator, incident, volunteer := seedMemory(t)
	ctx := context.Background()

	a := &models.Assignment{IncidentID: incident.ID, VolunteerID: volunteer.ID, AssignedBy: coordinator.ID}
	require.NoError(t, repo.CreateAssignment(ctx, a))

	active, err := repo.HasActiveAssignment(ctx, incident.ID, volunteer.ID)
	require.NoError(t, err)
	assert.True(t, active)

	require.NoError(t, repo.UpdateAssignmentStatus(ctx, a.ID, models.AssignmentDeclined))

	active, err = repo.HasActiveAssignment(ctx, incident.ID, volunteer.ID)
	require.NoError(t, err)
	assert.False(t, active)
}

func TestMemoryListAssignmentsFilter(t *testing.T) {
	repo, coordinator, incident, volunteer := seedMemory(t)
	ctx := context.Background()

	other := &models.Incident{Type: "fire", Severity: models.SeverityLow, ReportedBy: coordinator.ID}
	require.NoError(t, repo.CreateIncident(ctx, other))

	require.NoError(t, repo.CreateAssignment(ctx, &models.Assignment{IncidentID: incident.ID, VolunteerID: volunteer.ID, AssignedBy: coordinator.ID}))
	require.NoError(t, repo.CreateAssignment(ctx, &models.Assignment{IncidentID: other.ID, VolunteerID: volunteer.ID, AssignedBy: coordinator.ID}))

	byIncident, err := repo.ListAssignments(ctx, AssignmentFilter{IncidentID: other.ID})
	require.NoError(t, err)
	require.Len(t, byIncident, 1)
	assert.Equal(t, other.ID, byIncident[0].IncidentID)
	require.NotNil(t, byIncident[0].Incident)
	assert.Equal(t, "fire", byIncident[0].Incident.Type)

	byVolunteer, err := repo.ListAssignments(ctx, AssignmentFilter{VolunteerID: volunteer.ID})
	require.NoError(t, err)
	assert.Len(t, byVolunteer, 2)
	// newest first
	assert.Equal(t, other.ID, byVolunteer[0].IncidentID)
}

func TestMemoryListVolunteersAssignable(t *testing.T) {
	repo, _, _, volunteer := seedMemory(t)
	ctx := context.Background()

	list, err := repo.ListVolunteers(ctx, VolunteerFilter{OnlyAssignable: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.UpdateVolunteerStatus(ctx, volunteer.ID, models.VolunteerAssigned))

	list, err = repo.ListVolunteers(ctx, VolunteerFilter{OnlyAssignable: true})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = repo.ListVolunteers(ctx, VolunteerFilter{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMemoryReturnsCopies(t *testing.T) {
	repo, _, _, volunteer := seedMemory(t)
	ctx := context.Background()

	v, err := repo.GetVolunteer(ctx, volunteer.ID)
	require.NoError(t, err)
	v.Skills[0] = "changed"
	v.Status = models.VolunteerUnavailable

	again, err := repo.GetVolunteer(ctx, volunteer.ID)
	require.NoError(t, err)
	assert.Equal(t, "first aid", again.Skills[0])
	assert.Equal(t, models.VolunteerAvailable, again.Status)
}

func TestMemoryNotFound(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	_, err := repo.GetAssignment(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.DeleteAssignment(ctx, 99), ErrNotFound)
	assert.ErrorIs(t, repo.UpdateIncidentStatus(ctx, 99, models.IncidentResolved), ErrNotFound)
	assert.ErrorIs(t, repo.CreateAssignment(ctx, &models.Assignment{IncidentID: 1, VolunteerID: 1}), ErrNotFound)
}
