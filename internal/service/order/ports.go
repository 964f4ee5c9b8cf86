package order

import (
	"context"

	"github.com/Dibyajyoti06/CareConnect/internal/domain"
)

// Store is the order aggregate persistence surface.
type Store interface {
	Create(ctx context.Context, o *domain.Order) error
	ByID(ctx context.Context, id string) (*domain.Order, error)
	ByUser(ctx context.Context, userID string) ([]domain.Order, error)
	All(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, id string, fn func(*domain.Order) error) (*domain.Order, error)
}

// Gateway creates remote payment orders with the external provider.
type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string, notes map[string]string) (string, error)
}

// Publisher emits domain events for downstream consumers.
type Publisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}
