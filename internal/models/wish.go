package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Attendance is a guest's RSVP state.
type Attendance string

const (
	AttendanceAttending    Attendance = "ATTENDING"
	AttendanceNotAttending Attendance = "NOT_ATTENDING"
	AttendanceMaybe        Attendance = "MAYBE"
)

// Valid reports whether the value is one of the three RSVP states.
func (a Attendance) Valid() bool {
	switch a {
	case AttendanceAttending, AttendanceNotAttending, AttendanceMaybe:
		return true
	}
	return false
}

// Wish is a guest-submitted RSVP plus message, tied to one invitation and one
// guest name. Wishes are created once and never updated.
//
// The composite unique index makes the store reject a concurrent second
// insert for the same (invitation, name) pair, so the application-level
// existence check only decides which error message the guest sees.
type Wish struct {
	ID            string     `gorm:"primaryKey;type:uuid" json:"id"`
	InvitationUID string     `gorm:"type:varchar(64);not null;uniqueIndex:idx_wishes_invitation_name,priority:1" json:"-"`
	Name          string     `gorm:"type:varchar(255);not null;uniqueIndex:idx_wishes_invitation_name,priority:2" json:"name"`
	Message       string     `gorm:"type:text;not null" json:"message"`
	Attendance    Attendance `gorm:"type:varchar(16);not null;default:'MAYBE'" json:"attendance"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
}

// BeforeCreate assigns a generated identifier.
func (w *Wish) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
