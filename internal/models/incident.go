package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type IncidentStatus string
type IncidentSeverity string

const (
	IncidentReported   IncidentStatus = "reported"
	IncidentAssigned   IncidentStatus = "assigned"
	IncidentInProgress IncidentStatus = "in progress"
	IncidentResolved   IncidentStatus = "resolved"
)

const (
	SeverityLow      IncidentSeverity = "low"
	SeverityMedium   IncidentSeverity = "medium"
	SeverityHigh     IncidentSeverity = "high"
	SeverityCritical IncidentSeverity = "critical"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case IncidentReported, IncidentAssigned, IncidentInProgress, IncidentResolved:
		return true
	}
	return false
}

func (s IncidentSeverity) Valid() bool {
	switch s {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

type Incident struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	Type        string           `json:"type" gorm:"not null"`
	Latitude    float64          `json:"latitude" gorm:"type:decimal(10,8);not null"`
	Longitude   float64          `json:"longitude" gorm:"type:decimal(11,8);not null"`
	Description string           `json:"description" gorm:"type:text"`
	Severity    IncidentSeverity `json:"severity" gorm:"type:varchar(20);not null"`
	Status      IncidentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'reported'"`
	ReportedBy  uint             `json:"reported_by" gorm:"not null;index"`
	Reporter    *User            `json:"reporter,omitempty" gorm:"foreignKey:ReportedBy"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
	DeletedAt   gorm.DeletedAt   `json:"-" gorm:"index"`

	Assignments []Assignment `json:"Assignments,omitempty" gorm:"foreignKey:IncidentID"`
}

func (Incident) TableName() string {
	return "incidents"
}

// Validate checks the fields a reporter must supply.
func (i *Incident) Validate() error {
	if i.Type == "" {
		return fmt.Errorf("incident type is required")
	}
	if i.Latitude < -90 || i.Latitude > 90 {
		return fmt.Errorf("latitude must be between -90 and 90")
	}
	if i.Longitude < -180 || i.Longitude > 180 {
		return fmt.Errorf("longitude must be between -180 and 180")
	}
	if !i.Severity.Valid() {
		return fmt.Errorf("invalid severity %q", i.Severity)
	}
	if i.Status != "" && !i.Status.Valid() {
		return fmt.Errorf("invalid status %q", i.Status)
	}
	return nil
}
