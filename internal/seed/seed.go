// Package seed loads demo users, volunteer profiles and incidents from a YAML file.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/responsehub/backend/internal/logger"
	"github.com/responsehub/backend/internal/models"
	"github.com/responsehub/backend/internal/repository"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

type File struct {
	Users     []User     `yaml:"users"`
	Incidents []Incident `yaml:"incidents"`
}

type User struct {
	Username  string     `yaml:"username"`
	Email     string     `yaml:"email"`
	Password  string     `yaml:"password"`
	Role      string     `yaml:"role"`
	Volunteer *Volunteer `yaml:"volunteer"`
}

type Volunteer struct {
	Skills       []string `yaml:"skills"`
	Availability *bool    `yaml:"availability"`
	Latitude     *float64 `yaml:"latitude"`
	Longitude    *float64 `yaml:"longitude"`
}

type Incident struct {
	Type        string  `yaml:"type"`
	Latitude    float64 `yaml:"latitude"`
	Longitude   float64 `yaml:"longitude"`
	Description string  `yaml:"description"`
	Severity    string  `yaml:"severity"`
	ReportedBy  string  `yaml:"reported_by"`
}

// Result counts what Apply created and skipped.
type Result struct {
	UsersCreated     int
	UsersSkipped     int
	IncidentsCreated int
}

func Load(path string) (*File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file %s: %w", path, err)
	}
	return &file, nil
}

// Apply creates every user that does not exist yet, then the incidents.
// Existing users are left untouched so the seed can be rerun.
func Apply(ctx context.Context, repo repository.Repository, file *File) (Result, error) {
	var result Result

	for _, u := range file.Users {
		created, err := applyUser(ctx, repo, u)
		if err != nil {
			return result, err
		}
		if created {
			result.UsersCreated++
		} else {
			result.UsersSkipped++
		}
	}

	for _, i := range file.Incidents {
		reporter, err := repo.GetUserByUsername(ctx, i.ReportedBy)
		if err != nil {
			return result, fmt.Errorf("incident %q: reporter %q: %w", i.Type, i.ReportedBy, err)
		}
		incident := &models.Incident{
			Type:        i.Type,
			Latitude:    i.Latitude,
			Longitude:   i.Longitude,
			Description: i.Description,
			Severity:    models.IncidentSeverity(i.Severity),
			Status:      models.IncidentReported,
			ReportedBy:  reporter.ID,
		}
		if err := incident.Validate(); err != nil {
			return result, fmt.Errorf("incident %q: %w", i.Type, err)
		}
		if err := repo.CreateIncident(ctx, incident); err != nil {
			return result, fmt.Errorf("failed to create incident %q: %w", i.Type, err)
		}
		result.IncidentsCreated++
	}

	return result, nil
}

func applyUser(ctx context.Context, repo repository.Repository, u User) (bool, error) {
	if _, err := repo.GetUserByUsername(ctx, u.Username); err == nil {
		logger.Info("User already exists, skipping", map[string]interface{}{"username": u.Username})
		return false, nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return false, err
	}

	role := models.UserRole(u.Role)
	if role == "" {
		role = models.RolePublic
	}
	if !role.Valid() {
		return false, fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("user %s: failed to hash password: %w", u.Username, err)
	}

	err = repo.Transaction(ctx, func(tx repository.Repository) error {
		user := &models.User{Username: u.Username, Email: u.Email, Password: string(hashedPassword), Role: role}
		if err := tx.CreateUser(ctx, user); err != nil {
			return err
		}
		if role != models.RoleVolunteer {
			return nil
		}

		volunteer := &models.Volunteer{UserID: user.ID, Availability: true, Status: models.VolunteerAvailable}
		if v := u.Volunteer; v != nil {
			volunteer.Skills = v.Skills
			volunteer.CurrentLatitude = v.Latitude
			volunteer.CurrentLongitude = v.Longitude
			if v.Availability != nil {
				volunteer.Availability = *v.Availability
			}
		}
		if err := volunteer.Validate(); err != nil {
			return err
		}
		return tx.CreateVolunteer(ctx, volunteer)
	})
	if err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", u.Username, err)
	}

	logger.Info("Created user", map[string]interface{}{"username": u.Username, "role": role})
	return true, nil
}
