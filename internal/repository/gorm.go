package repository

import (
	"context"
	"errors"

	"github.com/responsehub/backend/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRepository is the postgres-backed entity store.
type GormRepository struct {
	db *gorm.DB
}

func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

func affected(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GormRepository) conn(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

func (r *GormRepository) locking(ctx context.Context) *gorm.DB {
	return r.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
}

// Transaction runs fn inside a database transaction. Any error returned by fn
// rolls the whole unit back.
func (r *GormRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.conn(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormRepository{db: tx})
	})
}

func (r *GormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Users

func (r *GormRepository) CreateUser(ctx context.Context, user *models.User) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(user).Error)
}

func (r *GormRepository) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *GormRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.conn(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// Incidents

func (r *GormRepository) CreateIncident(ctx context.Context, incident *models.Incident) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(incident).Error)
}

func (r *GormRepository) GetIncident(ctx context.Context, id uint) (*models.Incident, error) {
	var incident models.Incident
	err := r.conn(ctx).
		Preload("Reporter").
		Preload("Assignments", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Assignments.Volunteer.User").
		Preload("Assignments.Assigner").
		First(&incident, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &incident, nil
}

func (r *GormRepository) GetIncidentForUpdate(ctx context.Context, id uint) (*models.Incident, error) {
	var incident models.Incident
	if err := r.locking(ctx).First(&incident, id).Error; err != nil {
		return nil, translate(err)
	}
	return &incident, nil
}

func (r *GormRepository) ListIncidents(ctx context.Context) ([]models.Incident, error) {
	var incidents []models.Incident
	if err := r.conn(ctx).Preload("Reporter").Order("created_at DESC").Find(&incidents).Error; err != nil {
		return nil, translate(err)
	}
	return incidents, nil
}

func (r *GormRepository) UpdateIncident(ctx context.Context, incident *models.Incident) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Save(incident).Error)
}

func (r *GormRepository) UpdateIncidentStatus(ctx context.Context, id uint, status models.IncidentStatus) error {
	return affected(r.conn(ctx).Model(&models.Incident{}).Where("id = ?", id).Update("status", status))
}

func (r *GormRepository) DeleteIncident(ctx context.Context, id uint) error {
	return affected(r.conn(ctx).Delete(&models.Incident{}, id))
}

// Volunteers

func (r *GormRepository) CreateVolunteer(ctx context.Context, volunteer *models.Volunteer) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(volunteer).Error)
}

func (r *GormRepository) GetVolunteer(ctx context.Context, id uint) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	if err := r.conn(ctx).Preload("User").First(&volunteer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &volunteer, nil
}

func (r *GormRepository) GetVolunteerForUpdate(ctx context.Context, id uint) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	if err := r.locking(ctx).First(&volunteer, id).Error; err != nil {
		return nil, translate(err)
	}
	return &volunteer, nil
}

func (r *GormRepository) GetVolunteerByUserID(ctx context.Context, userID uint) (*models.Volunteer, error) {
	var volunteer models.Volunteer
	if err := r.conn(ctx).Preload("User").Where("user_id = ?", userID).First(&volunteer).Error; err != nil {
		return nil, translate(err)
	}
	return &volunteer, nil
}

func (r *GormRepository) ListVolunteers(ctx context.Context, filter VolunteerFilter) ([]models.Volunteer, error) {
	var volunteers []models.Volunteer
	query := r.conn(ctx).Preload("User")
	if filter.OnlyAssignable {
		query = query.Where("availability = ? AND status = ?", true, models.VolunteerAvailable)
	}
	if err := query.Order("id ASC").Find(&volunteers).Error; err != nil {
		return nil, translate(err)
	}
	return volunteers, nil
}

func (r *GormRepository) UpdateVolunteer(ctx context.Context, volunteer *models.Volunteer) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Save(volunteer).Error)
}

func (r *GormRepository) UpdateVolunteerStatus(ctx context.Context, id uint, status models.VolunteerStatus) error {
	return affected(r.conn(ctx).Model(&models.Volunteer{}).Where("id = ?", id).Update("status", status))
}

// Assignments

func (r *GormRepository) CreateAssignment(ctx context.Context, assignment *models.Assignment) error {
	return translate(r.conn(ctx).Omit(clause.Associations).Create(assignment).Error)
}

func (r *GormRepository) GetAssignment(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	err := r.conn(ctx).
		Preload("Incident.Reporter").
		Preload("Volunteer.User").
		Preload("Assigner").
		First(&assignment, id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

func (r *GormRepository) GetAssignmentForUpdate(ctx context.Context, id uint) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := r.locking(ctx).First(&assignment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &assignment, nil
}

func (r *GormRepository) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]models.Assignment, error) {
	var assignments []models.Assignment
	query := r.conn(ctx).
		Preload("Incident.Reporter").
		Preload("Volunteer.User").
		Preload("Assigner")
	if filter.IncidentID != 0 {
		query = query.Where("incident_id = ?", filter.IncidentID)
	}
	if filter.VolunteerID != 0 {
		query = query.Where("volunteer_id = ?", filter.VolunteerID)
	}
	if err := query.Order("created_at DESC").Find(&assignments).Error; err != nil {
		return nil, translate(err)
	}
	return assignments, nil
}

func (r *GormRepository) HasActiveAssignment(ctx context.Context, incidentID, volunteerID uint) (bool, error) {
	var count int64
	err := r.conn(ctx).Model(&models.Assignment{}).
		Where("incident_id = ? AND volunteer_id = ? AND status <> ?", incidentID, volunteerID, models.AssignmentDeclined).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}

func (r *GormRepository) UpdateAssignmentStatus(ctx context.Context, id uint, status models.AssignmentStatus) error {
	return affected(r.conn(ctx).Model(&models.Assignment{}).Where("id = ?", id).Update("status", status))
}

func (r *GormRepository) DeleteAssignment(ctx context.Context, id uint) error {
	return affected(r.conn(ctx).Delete(&models.Assignment{}, id))
}
