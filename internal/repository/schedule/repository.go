package schedule

import (
	"context"
	"time"

	"foodtruck-ordering/internal/domain"
)

type Repository interface {
	// ListEndingAfter returns schedules whose window has not closed before t.
	ListEndingAfter(ctx context.Context, t time.Time) ([]domain.Schedule, error)
	Create(ctx context.Context, s domain.Schedule) (*domain.Schedule, error)
	UpsertTruck(ctx context.Context, t domain.Truck) (*domain.Truck, error)
	UpsertLocation(ctx context.Context, l domain.Location) (*domain.Location, error)
}
