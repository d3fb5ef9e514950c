package schedule

import (
	"context"
	"time"

	"foodtruck-ordering/internal/domain"
)

type Service struct {
	repo schedules
	now  func() time.Time
}

type schedules interface {
	ListEndingAfter(ctx context.Context, t time.Time) ([]domain.Schedule, error)
}

func New(repo schedules) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Current resolves availability against the stored schedules.
func (s *Service) Current(ctx context.Context) (domain.Availability, error) {
	now := s.now().UTC()
	list, err := s.repo.ListEndingAfter(ctx, now)
	if err != nil {
		return domain.Availability{}, err
	}
	return Resolve(now, list), nil
}
