package schedule

import (
	"context"
	"time"

	"foodtruck-ordering/internal/domain"
	"foodtruck-ordering/internal/logging"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *zap.Logger) Repository {
	return &postgresRepo{pool: pool, logger: logging.OrNop(logger)}
}

func (r *postgresRepo) ListEndingAfter(ctx context.Context, t time.Time) ([]domain.Schedule, error) {
	const q = `
SELECT s.id, s.truck_id, s.location_id, s.start_time, s.end_time, s.is_active,
       t.name, COALESCE(t.description, ''),
       l.name, l.address, l.city, l.state, l.zip_code, l.latitude, l.longitude, COALESCE(l.notes, ''), l.is_active
FROM schedules s
JOIN trucks t ON t.id = s.truck_id
JOIN locations l ON l.id = s.location_id
WHERE s.end_time >= $1
ORDER BY s.start_time ASC, s.id ASC
`
	rows, err := r.pool.Query(ctx, q, t)
	if err != nil {
		r.logger.Error("schedule repo: list", zap.Time("after", t), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []domain.Schedule
	for rows.Next() {
		var (
			s   domain.Schedule
			trk domain.Truck
			loc domain.Location
		)
		if err := rows.Scan(
			&s.ID, &s.TruckID, &s.LocationID, &s.StartTime, &s.EndTime, &s.IsActive,
			&trk.Name, &trk.Description,
			&loc.Name, &loc.Address, &loc.City, &loc.State, &loc.ZipCode, &loc.Lat, &loc.Lng, &loc.Notes, &loc.IsActive,
		); err != nil {
			return nil, err
		}
		trk.ID = s.TruckID
		loc.ID = s.LocationID
		s.Truck = &trk
		s.Location = &loc
		s.StartTime = s.StartTime.UTC()
		s.EndTime = s.EndTime.UTC()
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	r.logger.Debug("schedule repo: list", zap.Time("after", t), zap.Int("count", len(result)))
	return result, nil
}

func (r *postgresRepo) Create(ctx context.Context, s domain.Schedule) (*domain.Schedule, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	const q = `
INSERT INTO schedules (truck_id, location_id, start_time, end_time, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	out := s
	if err := r.pool.QueryRow(ctx, q, s.TruckID, s.LocationID, s.StartTime, s.EndTime, s.IsActive).Scan(&out.ID); err != nil {
		r.logger.Error("schedule repo: create", zap.Int64("truck_id", s.TruckID), zap.Int64("location_id", s.LocationID), zap.Error(err))
		return nil, err
	}
	r.logger.Info("schedule repo: created", zap.Int64("id", out.ID), zap.Time("start", s.StartTime), zap.Time("end", s.EndTime))
	return &out, nil
}

func (r *postgresRepo) UpsertTruck(ctx context.Context, t domain.Truck) (*domain.Truck, error) {
	const q = `
INSERT INTO trucks (name, description)
VALUES ($1, NULLIF($2, ''))
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description
RETURNING id
`
	out := t
	if err := r.pool.QueryRow(ctx, q, t.Name, t.Description).Scan(&out.ID); err != nil {
		r.logger.Error("schedule repo: upsert truck", zap.String("name", t.Name), zap.Error(err))
		return nil, err
	}
	return &out, nil
}

func (r *postgresRepo) UpsertLocation(ctx context.Context, l domain.Location) (*domain.Location, error) {
	const q = `
INSERT INTO locations (name, address, city, state, zip_code, latitude, longitude, notes, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, ''), $9)
ON CONFLICT (name) DO UPDATE
SET address = EXCLUDED.address,
    city = EXCLUDED.city,
    state = EXCLUDED.state,
    zip_code = EXCLUDED.zip_code,
    latitude = EXCLUDED.latitude,
    longitude = EXCLUDED.longitude,
    notes = EXCLUDED.notes,
    is_active = EXCLUDED.is_active
RETURNING id
`
	out := l
	err := r.pool.QueryRow(ctx, q, l.Name, l.Address, l.City, l.State, l.ZipCode, l.Lat, l.Lng, l.Notes, l.IsActive).Scan(&out.ID)
	if err != nil {
		r.logger.Error("schedule repo: upsert location", zap.String("name", l.Name), zap.Error(err))
		return nil, err
	}
	return &out, nil
}
