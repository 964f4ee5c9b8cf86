package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Dibyajyoti06/CareConnect/internal/apperr"
)

// Medicine carries the per-product stock counter. CountInStock is only
// decremented inside the payment reconciliation transaction.
type Medicine struct {
	ID           string          `gorm:"primaryKey" json:"id"`
	Name         string          `json:"name"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `gorm:"type:numeric" json:"price"`
	CountInStock int             `json:"countInStock"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Decrement takes qty units out of stock; the counter never goes negative.
func (m *Medicine) Decrement(qty int) error {
	if m.CountInStock < qty {
		return apperr.InsufficientStockf("insufficient stock for %s: requested %d, available %d",
			m.Name, qty, m.CountInStock)
	}
	m.CountInStock -= qty
	return nil
}
