package domain

import "time"

type Truck struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type Location struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Address  string   `json:"address"`
	City     string   `json:"city"`
	State    string   `json:"state"`
	ZipCode  string   `json:"zipCode"`
	Lat      *float64 `json:"latitude,omitempty"`
	Lng      *float64 `json:"longitude,omitempty"`
	Notes    string   `json:"notes,omitempty"`
	IsActive bool     `json:"isActive"`
}

// Schedule places a truck at a location for a time window.
type Schedule struct {
	ID         int64     `json:"id"`
	TruckID    int64     `json:"truckId"`
	LocationID int64     `json:"locationId"`
	Truck      *Truck    `json:"truck,omitempty"`
	Location   *Location `json:"location,omitempty"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	IsActive   bool      `json:"isActive"`
}

func (s Schedule) Validate() error {
	verr := &ValidationError{}
	if s.TruckID == 0 {
		verr.Add("truckId", "truck is required")
	}
	if s.LocationID == 0 {
		verr.Add("locationId", "location is required")
	}
	if !s.EndTime.After(s.StartTime) {
		verr.Add("endTime", "end time must be after start time")
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// Covers reports start <= now <= end, both bounds inclusive.
func (s Schedule) Covers(now time.Time) bool {
	return !now.Before(s.StartTime) && !now.After(s.EndTime)
}

type AvailabilityState string

const (
	AvailabilityActive   AvailabilityState = "active"
	AvailabilityUpcoming AvailabilityState = "upcoming"
	AvailabilityNone     AvailabilityState = "none"
)

type Availability struct {
	State    AvailabilityState `json:"state"`
	Schedule *Schedule         `json:"schedule"`
}
