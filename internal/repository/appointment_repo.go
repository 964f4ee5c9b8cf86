package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

type AppointmentRepo struct{ db *gorm.DB }

func NewAppointmentRepo(db *gorm.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Appointment{}, &domain.AppointmentSlot{})
}

// CreateNoOverlap runs the per-doctor slot-conflict check and the insert in
// one transaction, locking candidate slot rows so two conflicting requests
// cannot both pass the check and both commit.
func (r *AppointmentRepo) CreateNoOverlap(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range a.Items {
			// Doctors with no appointments on record cannot conflict.
			var n int64
			if err := tx.Model(&domain.AppointmentSlot{}).
				Where("doctor_id = ?", it.DoctorID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				continue
			}

			var taken domain.AppointmentSlot
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("doctor_id = ?", it.DoctorID).
				Where("slot_time > ? AND slot_time < ?",
					a.Time.Add(-domain.SlotWidth), a.Time.Add(domain.SlotWidth)).
				Take(&taken).Error
			if err == nil {
				return apperr.Conflictf("time slot is already booked")
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if err := tx.Create(a).Error; err != nil {
			return err
		}
		for _, it := range a.Items {
			slot := domain.AppointmentSlot{
				DoctorID:      it.DoctorID,
				SlotTime:      a.Time,
				AppointmentID: a.ID,
			}
			if err := tx.Create(&slot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *AppointmentRepo) ByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := r.db.WithContext(ctx).Take(&a, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("appointment not found")
		}
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepo) ByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time ASC").
		Find(&out).Error
	return out, err
}

func (r *AppointmentRepo) All(ctx context.Context) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).Order("time ASC").Find(&out).Error
	return out, err
}

func (r *AppointmentRepo) Update(ctx context.Context, id string, fn func(*domain.Appointment) error) (*domain.Appointment, error) {
	var out *domain.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var a domain.Appointment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&a, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("appointment not found")
			}
			return err
		}
		if err := fn(&a); err != nil {
			return err
		}
		if err := tx.Save(&a).Error; err != nil {
			return err
		}
		out = &a
		return nil
	})
	return out, err
}
