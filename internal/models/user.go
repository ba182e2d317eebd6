package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RolePublic      UserRole = "public"
	RoleVolunteer   UserRole = "volunteer"
	RoleCoordinator UserRole = "coordinator"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RolePublic, RoleVolunteer, RoleCoordinator:
		return true
	}
	return false
}

type User struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	Username  string         `json:"username" gorm:"uniqueIndex;not null"`
	Email     string         `json:"email" gorm:"uniqueIndex;not null"`
	Password  string         `json:"-" gorm:"not null"`
	Role      UserRole       `json:"role" gorm:"type:varchar(20);not null;default:'public'"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`

	Volunteer *Volunteer `json:"Volunteer,omitempty" gorm:"foreignKey:UserID"`
}

func (User) TableName() string {
	return "users"
}
