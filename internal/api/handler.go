package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/shopspring/decimal"

	"rental-manager-backend/internal/notification"
	"rental-manager-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store       store.Store
	workers     *notification.WorkerPool
	webpush     *webpush.Options
	defaultRate decimal.Decimal
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, workers *notification.WorkerPool, webpushOptions *webpush.Options, defaultRate decimal.Decimal) *Handler {
	return &Handler{
		store:       s,
		workers:     workers,
		webpush:     webpushOptions,
		defaultRate: defaultRate,
	}
}
