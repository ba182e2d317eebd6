package models

import (
	"time"
)

type AssignmentStatus string

const (
	AssignmentAssigned  AssignmentStatus = "assigned"
	AssignmentAccepted  AssignmentStatus = "accepted"
	AssignmentCompleted AssignmentStatus = "completed"
	AssignmentDeclined  AssignmentStatus = "declined"
)

var assignmentTransitions = map[AssignmentStatus][]AssignmentStatus{
	AssignmentAssigned: {AssignmentAccepted, AssignmentDeclined},
	AssignmentAccepted: {AssignmentCompleted, AssignmentDeclined},
}

func (s AssignmentStatus) Valid() bool {
	switch s {
	case AssignmentAssigned, AssignmentAccepted, AssignmentCompleted, AssignmentDeclined:
		return true
	}
	return false
}

// Active reports whether an assignment in this status still holds its volunteer.
func (s AssignmentStatus) Active() bool {
	return s == AssignmentAssigned || s == AssignmentAccepted
}

func (s AssignmentStatus) Terminal() bool {
	return s == AssignmentCompleted || s == AssignmentDeclined
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s AssignmentStatus) CanTransitionTo(next AssignmentStatus) bool {
	for _, allowed := range assignmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Assignment links one incident to one volunteer. Records are hard-deleted.
type Assignment struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	IncidentID  uint             `json:"incident_id" gorm:"not null;index"`
	Incident    *Incident        `json:"Incident,omitempty" gorm:"foreignKey:IncidentID"`
	VolunteerID uint             `json:"volunteer_id" gorm:"not null;index"`
	Volunteer   *Volunteer       `json:"Volunteer,omitempty" gorm:"foreignKey:VolunteerID"`
	AssignedBy  uint             `json:"assigned_by" gorm:"not null"`
	Assigner    *User            `json:"assigner,omitempty" gorm:"foreignKey:AssignedBy"`
	Status      AssignmentStatus `json:"status" gorm:"type:varchar(20);not null;default:'assigned'"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

func (Assignment) TableName() string {
	return "assignments"
}
