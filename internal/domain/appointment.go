package domain

import (
	"time"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

// SlotWidth is the fixed appointment slot window per doctor.
const SlotWidth = 30 * time.Minute

type AppointmentItem struct {
	Name      string   `json:"name"`
	Image     string   `json:"image"`
	Chamber   string   `json:"chamber"`
	Degree    []string `json:"degree"`
	Tag       string   `json:"tag"`
	Available string   `json:"available"`
	DoctorID  string   `json:"doctor"`
}

type Location struct {
	Address     string      `json:"address"`
	ContactInfo ContactInfo `json:"contactInfo"`
}

type Appointment struct {
	ID         string            `gorm:"primaryKey" json:"id"`
	UserID     string            `gorm:"index" json:"user"`
	Items      []AppointmentItem `gorm:"serializer:json" json:"appointmentItems"`
	Time       time.Time         `gorm:"index" json:"time"`
	Location   Location          `gorm:"serializer:json" json:"location"`
	IsApproved bool              `json:"isApproved"`
	ApprovedAt *time.Time        `json:"approvedAt,omitempty"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

// AppointmentSlot is the flat per-doctor occupancy row the conflict guard
// queries and locks; one row per doctor referenced by an appointment.
type AppointmentSlot struct {
	DoctorID      string    `gorm:"primaryKey"`
	SlotTime      time.Time `gorm:"primaryKey"`
	AppointmentID string    `gorm:"index"`
}

// Approve is one-way.
func (a *Appointment) Approve(now time.Time) error {
	if a.IsApproved {
		return apperr.Conflictf("appointment is already approved")
	}
	a.IsApproved = true
	a.ApprovedAt = &now
	return nil
}

// NormalizeSlotTime truncates to whole-minute granularity, in UTC.
func NormalizeSlotTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// SlotsOverlap reports whether two normalized appointment times fall inside
// the same doctor's slot window: |t1-t2| < SlotWidth.
func SlotsOverlap(t1, t2 time.Time) bool {
	d := t1.Sub(t2)
	if d < 0 {
		d = -d
	}
	return d < SlotWidth
}
