// Package memory holds an in-memory implementation of the order and
// appointment stores. A single mutex stands in for the database
// transaction: every operation is serializable with respect to every
// other, and state is only committed once all checks have passed.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

type Store struct {
	mu           sync.Mutex
	orders       map[string]*domain.Order
	appointments map[string]*domain.Appointment
	medicines    map[string]*domain.Medicine
}

func NewStore() *Store {
	return &Store{
		orders:       make(map[string]*domain.Order),
		appointments: make(map[string]*domain.Appointment),
		medicines:    make(map[string]*domain.Medicine),
	}
}

// Orders exposes the order-store surface.
func (s *Store) Orders() *OrderStore { return &OrderStore{s: s} }

// Appointments exposes the appointment-store surface.
func (s *Store) Appointments() *AppointmentStore { return &AppointmentStore{s: s} }

func (s *Store) SeedMedicine(m domain.Medicine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medicines[m.ID] = &m
}

func (s *Store) Stock(medicineID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.medicines[medicineID]; ok {
		return m.CountInStock
	}
	return 0
}

func cloneOrder(o *domain.Order) *domain.Order {
	c := *o
	c.Items = append([]domain.OrderItem(nil), o.Items...)
	return &c
}

func cloneAppointment(a *domain.Appointment) *domain.Appointment {
	c := *a
	c.Items = append([]domain.AppointmentItem(nil), a.Items...)
	return &c
}

// ---------- orders ----------

type OrderStore struct{ s *Store }

func (r *OrderStore) Create(ctx context.Context, o *domain.Order) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	o.CreatedAt, o.UpdatedAt = now, now
	r.s.orders[o.ID] = cloneOrder(o)
	return nil
}

func (r *OrderStore) ByID(ctx context.Context, id string) (*domain.Order, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("order not found")
	}
	return cloneOrder(o), nil
}

func (r *OrderStore) ByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Order
	for _, o := range r.s.orders {
		if o.UserID == userID {
			out = append(out, *cloneOrder(o))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderStore) All(ctx context.Context) ([]domain.Order, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Order
	for _, o := range r.s.orders {
		out = append(out, *cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *OrderStore) Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, apperr.NotFoundf("order not found")
	}
	work := cloneOrder(o)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = work
	return cloneOrder(work), nil
}

// ReconcilePayment mirrors the SQL repository: isPaid gate, per-line stock
// check and decrement, and the payment-result write all commit together or
// not at all.
func (r *OrderStore) ReconcilePayment(ctx context.Context, paymentOrderID string, outcome domain.PaymentOutcome) (*domain.Order, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var o *domain.Order
	for _, cand := range r.s.orders {
		if cand.PaymentOrderID == paymentOrderID {
			o = cand
			break
		}
	}
	if o == nil {
		return nil, apperr.NotFoundf("no order for payment order %s", paymentOrderID)
	}

	work := cloneOrder(o)

	if !outcome.Captured {
		work.ApplyPaymentFailure(outcome.PaymentID)
		r.s.orders[work.ID] = work
		return cloneOrder(work), nil
	}

	if work.PaymentResult.IsPaid {
		return cloneOrder(work), nil
	}

	// stage the decrements; commit only if every line clears
	staged := make(map[string]*domain.Medicine, len(work.Items))
	for _, it := range work.Items {
		med, ok := staged[it.MedicineID]
		if !ok {
			stored, exists := r.s.medicines[it.MedicineID]
			if !exists {
				return nil, apperr.NotFoundf("medicine %s not found", it.MedicineID)
			}
			c := *stored
			med = &c
			staged[it.MedicineID] = med
		}
		if err := med.Decrement(it.Qty); err != nil {
			return nil, err
		}
	}
	for id, med := range staged {
		r.s.medicines[id] = med
	}

	work.ApplyPaymentCapture(outcome.PaymentID, time.Now().UTC())
	r.s.orders[work.ID] = work
	return cloneOrder(work), nil
}

// ---------- appointments ----------

type AppointmentStore struct{ s *Store }

func (r *AppointmentStore) CreateNoOverlap(ctx context.Context, a *domain.Appointment) error {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, it := range a.Items {
		for _, other := range r.s.appointments {
			for _, oit := range other.Items {
				if oit.DoctorID == it.DoctorID && domain.SlotsOverlap(a.Time, other.Time) {
					return apperr.Conflictf("time slot is already booked")
				}
			}
		}
	}

	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	r.s.appointments[a.ID] = cloneAppointment(a)
	return nil
}

func (r *AppointmentStore) ByID(ctx context.Context, id string) (*domain.Appointment, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, apperr.NotFoundf("appointment not found")
	}
	return cloneAppointment(a), nil
}

func (r *AppointmentStore) ByUser(ctx context.Context, userID string) ([]domain.Appointment, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.s.appointments {
		if a.UserID == userID {
			out = append(out, *cloneAppointment(a))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (r *AppointmentStore) All(ctx context.Context) ([]domain.Appointment, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []domain.Appointment
	for _, a := range r.s.appointments {
		out = append(out, *cloneAppointment(a))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })
	return out, nil
}

func (r *AppointmentStore) Update(ctx context.Context, id string, fn func(*domain.Appointment) error) (*domain.Appointment, error) {
	_ = ctx
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.appointments[id]
	if !ok {
		return nil, apperr.NotFoundf("appointment not found")
	}
	work := cloneAppointment(a)
	if err := fn(work); err != nil {
		return nil, err
	}
	work.UpdatedAt = time.Now().UTC()
	r.s.appointments[id] = work
	return cloneAppointment(work), nil
}
