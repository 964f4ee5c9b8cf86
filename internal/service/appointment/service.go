package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

// Store is the appointment persistence surface. CreateNoOverlap must make
// the slot-conflict check and the insert atomic.
type Store interface {
	CreateNoOverlap(ctx context.Context, a *domain.Appointment) error
	ByID(ctx context.Context, id string) (*domain.Appointment, error)
	ByUser(ctx context.Context, userID string) ([]domain.Appointment, error)
	All(ctx context.Context) ([]domain.Appointment, error)
	Update(ctx context.Context, id string, fn func(*domain.Appointment) error) (*domain.Appointment, error)
}

type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

type Service struct {
	store Store
	pub   Publisher
	log   *zap.Logger
}

func NewService(store Store, pub Publisher, log *zap.Logger) *Service {
	return &Service{store: store, pub: pub, log: log}
}

type BookInput struct {
	Items    []domain.AppointmentItem
	Time     time.Time
	Location domain.Location
}

// Book validates the request, normalizes the desired time to whole minutes
// and creates the appointment unless a doctor's slot window is taken.
func (s *Service) Book(ctx context.Context, userID string, in BookInput) (*domain.Appointment, error) {
	if len(in.Items) == 0 {
		return nil, apperr.Validationf("no appointment items")
	}
	for _, it := range in.Items {
		if strings.TrimSpace(it.DoctorID) == "" || strings.TrimSpace(it.Name) == "" {
			return nil, apperr.Validationf("invalid fields in appointment items")
		}
	}
	if err := in.Location.Validate(); err != nil {
		return nil, err
	}
	if in.Time.IsZero() {
		return nil, apperr.Validationf("appointment time is required")
	}

	a := &domain.Appointment{
		ID:       uuid.NewString(),
		UserID:   userID,
		Items:    in.Items,
		Time:     domain.NormalizeSlotTime(in.Time),
		Location: in.Location,
	}
	if err := s.store.CreateNoOverlap(ctx, a); err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "appointment.booked", map[string]any{
		"appointment_id": a.ID, "user_id": a.UserID, "time": a.Time.Format(time.RFC3339),
	})
	s.log.Info("appointment booked",
		zap.String("appointment_id", a.ID),
		zap.Time("time", a.Time))
	return a, nil
}

// Approve is one-way; approving twice is a conflict.
func (s *Service) Approve(ctx context.Context, id string) (*domain.Appointment, error) {
	now := time.Now().UTC()
	return s.store.Update(ctx, id, func(a *domain.Appointment) error {
		return a.Approve(now)
	})
}

func (s *Service) Get(ctx context.Context, userID, role, id string) (*domain.Appointment, error) {
	a, err := s.store.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID && role != "admin" {
		return nil, apperr.Forbiddenf("not your appointment")
	}
	return a, nil
}

func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Appointment, error) {
	return s.store.ByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]domain.Appointment, error) {
	return s.store.All(ctx)
}
