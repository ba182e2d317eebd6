package models

import (
	"fmt"
	"time"

	"github.com/lib/pq"
)

type VolunteerStatus string

const (
	VolunteerAvailable   VolunteerStatus = "available"
	VolunteerAssigned    VolunteerStatus = "assigned"
	VolunteerUnavailable VolunteerStatus = "unavailable"
)

func (s VolunteerStatus) Valid() bool {
	switch s {
	case VolunteerAvailable, VolunteerAssigned, VolunteerUnavailable:
		return true
	}
	return false
}

type Volunteer struct {
	ID               uint            `json:"id" gorm:"primaryKey"`
	UserID           uint            `json:"user_id" gorm:"uniqueIndex;not null"`
	User             *User           `json:"User,omitempty" gorm:"foreignKey:UserID"`
	Skills           pq.StringArray  `json:"skills" gorm:"type:text[];default:'{}'"`
	Availability     bool            `json:"availability" gorm:"not null"`
	CurrentLatitude  *float64        `json:"current_latitude" gorm:"type:decimal(10,8)"`
	CurrentLongitude *float64        `json:"current_longitude" gorm:"type:decimal(11,8)"`
	Status           VolunteerStatus `json:"status" gorm:"type:varchar(20);not null;default:'available'"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func (Volunteer) TableName() string {
	return "volunteers"
}

// CanBeAssigned reports whether the volunteer may receive a new assignment.
func (v *Volunteer) CanBeAssigned() bool {
	return v.Availability && v.Status == VolunteerAvailable
}

func (v *Volunteer) Validate() error {
	if v.UserID == 0 {
		return fmt.Errorf("user ID is required")
	}
	if v.Status != "" && !v.Status.Valid() {
		return fmt.Errorf("invalid volunteer status %q", v.Status)
	}
	if v.CurrentLatitude != nil && (*v.CurrentLatitude < -90 || *v.CurrentLatitude > 90) {
		return fmt.Errorf("current latitude must be between -90 and 90")
	}
	if v.CurrentLongitude != nil && (*v.CurrentLongitude < -180 || *v.CurrentLongitude > 180) {
		return fmt.Errorf("current longitude must be between -180 and 180")
	}
	return nil
}
