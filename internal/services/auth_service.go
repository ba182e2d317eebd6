package services

import (
	"context"
	"errors"
	"time"

	"github.com/responsehub/backend/internal/auth"
	"github.com/responsehub/backend/internal/cache"
	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const authComponent = "auth_service"

type AuthService struct {
	repo    repository.Repository
	tokens  *auth.TokenManager
	revoked cache.RevocationStore
}

func NewAuthService(repo repository.Repository, tokens *auth.TokenManager, revoked cache.RevocationStore) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, revoked: revoked}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     models.UserRole
	Skills   []string
}

type AuthResult struct {
	Token     string
	ExpiresAt time.Time
	User      *models.User
}

// Register creates the account and, for volunteers, an available volunteer
// profile in the same transaction.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	if input.Role == "" {
		input.Role = models.RolePublic
	}
	if !input.Role.Valid() {
		return nil, Validation("Invalid role", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, internalError(err, authComponent, "hash password")
	}

	user := &models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashedPassword),
		Role:     input.Role,
	}

	err = s.repo.Transaction(ctx, func(tx repository.Repository) error {
		if _, err := tx.GetUserByUsername(ctx, user.Username); err == nil {
			return Conflict("User already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if _, err := tx.GetUserByEmail(ctx, user.Email); err == nil {
			return Conflict("User already exists")
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := tx.CreateUser(ctx, user); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return Conflict("User already exists")
			}
			return err
		}
		if user.Role != models.RoleVolunteer {
			return nil
		}
		return tx.CreateVolunteer(ctx, &models.Volunteer{
			UserID:       user.ID,
			Skills:       input.Skills,
			Availability: true,
			Status:       models.VolunteerAvailable,
		})
	})
	if err != nil {
		return nil, internalError(err, authComponent, "register user")
	}

	logger.WithUser(user.ID).WithField("role", user.Role).Info("User registered")

	return s.issue(user)
}

// Login checks the password and issues a fresh token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, Unauthorized("Invalid credentials")
		}
		return nil, internalError(err, authComponent, "load user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		logger.Warn("Failed login attempt", map[string]interface{}{"username": username})
		return nil, Unauthorized("Invalid credentials")
	}

	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, internalError(err, authComponent, "generate token")
	}
	return &AuthResult{Token: token, ExpiresAt: claims.ExpiresAt.Time, User: user}, nil
}

// Profile returns the user with the volunteer profile attached when one exists.
func (s *AuthService) Profile(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, internalError(notFoundAs(err, "User not found"), authComponent, "load user")
	}

	volunteer, err := s.repo.GetVolunteerByUserID(ctx, userID)
	switch {
	case err == nil:
		volunteer.User = nil
		user.Volunteer = volunteer
	case !errors.Is(err, repository.ErrNotFound):
		return nil, internalError(err, authComponent, "load volunteer profile")
	}
	return user, nil
}

// Authenticate resolves a bearer token to its claims, rejecting revoked tokens
// and tokens whose user no longer exists. The role is taken from the stored
// user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, Unauthorized("Invalid token")
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, internalError(err, authComponent, "check token revocation")
	}
	if revoked {
		return nil, Unauthorized("Token has been revoked")
	}

	user, err := s.repo.GetUser(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, Unauthorized("User not found")
	}
	if err != nil {
		return nil, internalError(err, authComponent, "load user")
	}
	claims.Role = user.Role
	return claims, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if err := s.revoked.Revoke(ctx, claims.ID, s.tokens.Remaining(claims)); err != nil {
		return internalError(err, authComponent, "revoke token")
	}
	logger.WithUser(claims.UserID).Info("User logged out")
	return nil
}
