package schedule

import (
	"time"

	"foodtruck-ordering/internal/domain"
)

// Resolve picks what the vendor is doing at now. An active schedule
// covering now wins, latest start first; otherwise the next schedule to
// start, whether or not it is flagged active; otherwise none.
func Resolve(now time.Time, schedules []domain.Schedule) domain.Availability {
	var active, upcoming *domain.Schedule
	for i := range schedules {
		s := &schedules[i]
		if s.IsActive && s.Covers(now) {
			if active == nil || s.StartTime.After(active.StartTime) ||
				(s.StartTime.Equal(active.StartTime) && s.ID < active.ID) {
				active = s
			}
			continue
		}
		if s.StartTime.After(now) {
			if upcoming == nil || s.StartTime.Before(upcoming.StartTime) ||
				(s.StartTime.Equal(upcoming.StartTime) && s.ID < upcoming.ID) {
				upcoming = s
			}
		}
	}

	switch {
	case active != nil:
		picked := *active
		return domain.Availability{State: domain.AvailabilityActive, Schedule: &picked}
	case upcoming != nil:
		picked := *upcoming
		return domain.Availability{State: domain.AvailabilityUpcoming, Schedule: &picked}
	default:
		return domain.Availability{State: domain.AvailabilityNone}
	}
}
