package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

type OrderRepo struct{ db *gorm.DB }

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

func (r *OrderRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Order{}, &domain.Medicine{})
}

func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *OrderRepo) ByID(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Take(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFoundf("order not found")
		}
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) ByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *OrderRepo) All(ctx context.Context) ([]domain.Order, error) {
	var out []domain.Order
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&out).Error
	return out, err
}

// Update loads the order under a row lock, applies fn and saves, all in one
// transaction. Used for the deliver/cancel/payment-initiation transitions.
func (r *OrderRepo) Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&o, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("order not found")
			}
			return err
		}
		if err := fn(&o); err != nil {
			return err
		}
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	return out, err
}

// ReconcilePayment applies a classified gateway webhook event to the order
// the remote payment-order id belongs to. The isPaid gate, the per-line
// stock checks and every decrement share one transaction, so duplicate or
// concurrent deliveries of the same capture can never decrement twice and
// a short line aborts the whole thing.
func (r *OrderRepo) ReconcilePayment(ctx context.Context, paymentOrderID string, outcome domain.PaymentOutcome) (*domain.Order, error) {
	var out *domain.Order
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o domain.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Take(&o, "payment_order_id = ?", paymentOrderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFoundf("no order for payment order %s", paymentOrderID)
			}
			return err
		}

		if !outcome.Captured {
			o.ApplyPaymentFailure(outcome.PaymentID)
			if err := tx.Save(&o).Error; err != nil {
				return err
			}
			out = &o
			return nil
		}

		if o.PaymentResult.IsPaid {
			// duplicate delivery; nothing to apply
			out = &o
			return nil
		}

		for _, it := range o.Items {
			var med domain.Medicine
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Take(&med, "id = ?", it.MedicineID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.NotFoundf("medicine %s not found", it.MedicineID)
				}
				return err
			}
			if err := med.Decrement(it.Qty); err != nil {
				return err
			}
			if err := tx.Model(&domain.Medicine{}).
				Where("id = ?", med.ID).
				Update("count_in_stock", med.CountInStock).Error; err != nil {
				return err
			}
		}

		o.ApplyPaymentCapture(outcome.PaymentID, time.Now().UTC())
		if err := tx.Save(&o).Error; err != nil {
			return err
		}
		out = &o
		return nil
	})
	return out, err
}
