package services

import (
	"testing"
	"time"

	"github.com/responsehub/backend/internal/auth"
	"github.com/responsehub/backend/internal/cache"
	"github.com/responsehub/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(f *fixture) *AuthService {
	tokens := auth.NewTokenManager("unit-test-secret-value", time.Hour)
	return NewAuthService(f.repo, tokens, cache.NewMemoryRevocationStore())
}

func TestRegisterVolunteerCreatesProfile(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	result, err := svc.Register(f.ctx, RegisterInput{
		Username: "newvol",
		Email:    "newvol@example.com",
		Password: "secret123",
		Role:     models.RoleVolunteer,
		Skills:   []string{"first aid"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.True(t, result.ExpiresAt.After(time.Now()))
	assert.NotEqual(t, "secret123", result.User.Password)

	profile, err := svc.Profile(f.ctx, result.User.ID)
	require.NoError(t, err)
	require.NotNil(t, profile.Volunteer)
	assert.Equal(t, models.VolunteerAvailable, profile.Volunteer.Status)
	assert.Equal(t, []string{"first aid"}, []string(profile.Volunteer.Skills))
}

func TestRegisterDefaultsToPublic(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	result, err := svc.Register(f.ctx, RegisterInput{Username: "bystander", Email: "b@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, models.RolePublic, result.User.Role)

	profile, err := svc.Profile(f.ctx, result.User.ID)
	require.NoError(t, err)
	assert.Nil(t, profile.Volunteer)
}

func TestRegisterRejectsDuplicatesAndBadRoles(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(f.ctx, RegisterInput{Username: "vol", Email: "fresh@example.com", Password: "secret123"})
	assert.True(t, IsKind(err, KindConflict))

	_, err = svc.Register(f.ctx, RegisterInput{Username: "fresh", Email: "vol@example.com", Password: "secret123"})
	assert.True(t, IsKind(err, KindConflict))

	_, err = svc.Register(f.ctx, RegisterInput{Username: "fresh", Email: "fresh@example.com", Password: "secret123", Role: "admin"})
	assert.True(t, IsKind(err, KindValidation))
}

func TestLoginAndLogout(t *testing.T) {
	f := newFixture(t)
	svc := newAuthService(f)

	_, err := svc.Register(f.ctx, RegisterInput{Username: "coord2", Email: "c2@example.com", Password: "secret123", Role: models.RoleCoordinator})
	require.NoError(t, err)

	_, err = svc.Login(f.ctx, "coord2", "wrong")
	assert.True(t, IsKind(err, KindUnauthorized))
	_, err = svc.Login(f.ctx, "nobody", "secret123")
	assert.True(t, IsKind(err, KindUnauthorized))

	result, err := svc.Login(f.ctx, "coord2", "secret123")
	require.NoError(t, err)

	claims, err := svc.Authenticate(f.ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, result.User.ID, claims.UserID)
	assert.Equal(t, models.RoleCoordinator, claims.Role)

	require.NoError(t, svc.Logout(f.ctx, claims))

	_, err = svc.Authenticate(f.ctx, result.Token)
	assert.True(t, IsKind(err, KindUnauthorized))

	_, err = svc.Authenticate(f.ctx, "garbage")
	assert.True(t, IsKind(err, KindUnauthorized))
}

func TestAuthenticateRequiresExistingUser(t *testing.T) {
	f := newFixture(t)
	tokens := auth.NewTokenManager("unit-test-secret-value", time.Hour)
	svc := NewAuthService(f.repo, tokens, cache.NewMemoryRevocationStore())

	ghost, _, err := tokens.Issue(&models.User{ID: 999, Role: models.RoleCoordinator})
	require.NoError(t, err)
	_, err = svc.Authenticate(f.ctx, ghost)
	assert.True(t, IsKind(err, KindUnauthorized))

	// A token minted with a stale role resolves to the stored one.
	stale, _, err := tokens.Issue(&models.User{ID: f.owner.UserID, Role: models.RoleCoordinator})
	require.NoError(t, err)
	claims, err := svc.Authenticate(f.ctx, stale)
	require.NoError(t, err)
	assert.Equal(t, models.RoleVolunteer, claims.Role)
}
