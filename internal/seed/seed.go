package seed

import (
	"context"
	"fmt"
	"time"

	"foodtruck-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

type scheduleWriter interface {
	ListEndingAfter(ctx context.Context, t time.Time) ([]domain.Schedule, error)
	Create(ctx context.Context, s domain.Schedule) (*domain.Schedule, error)
	UpsertTruck(ctx context.Context, t domain.Truck) (*domain.Truck, error)
	UpsertLocation(ctx context.Context, l domain.Location) (*domain.Location, error)
}

type categoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type menuWriter interface {
	UpsertItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	UpsertModifier(ctx context.Context, m domain.Modifier) (*domain.Modifier, error)
	AttachModifier(ctx context.Context, itemID int64, m domain.Modifier) error
}

// Repos are the writers the seed goes through.
type Repos struct {
	Schedules  scheduleWriter
	Categories categoryWriter
	Menu       menuWriter
}

type itemSeed struct {
	Category    string
	Name        string
	Description string
	Price       string
	Modifiers   []string
}

var categorySeeds = []domain.Category{
	{Name: "Tacos", Description: "Corn tortillas, made to order", DisplayOrder: 1},
	{Name: "Sides", DisplayOrder: 2},
	{Name: "Drinks", DisplayOrder: 3},
}

var modifierSeeds = []domain.Modifier{
	{Name: "Extra cheese", Type: "topping", PriceDelta: decimal.RequireFromString("0.50"), MaxSelections: 1},
	{Name: "Guacamole", Type: "topping", PriceDelta: decimal.RequireFromString("1.25"), MaxSelections: 1},
	{Name: "No onions", Type: "removal", PriceDelta: decimal.Zero, MaxSelections: 1},
	{Name: "Large", Type: "size", PriceDelta: decimal.RequireFromString("1.00"), MaxSelections: 1},
}

var itemSeeds = []itemSeed{
	{Category: "Tacos", Name: "Carne Asada Taco", Description: "Grilled steak, onion, cilantro", Price: "4.50", Modifiers: []string{"Extra cheese", "Guacamole", "No onions"}},
	{Category: "Tacos", Name: "Al Pastor Taco", Description: "Marinated pork, pineapple", Price: "4.25", Modifiers: []string{"Guacamole", "No onions"}},
	{Category: "Tacos", Name: "Veggie Taco", Description: "Roasted peppers, black beans", Price: "3.75", Modifiers: []string{"Extra cheese", "Guacamole"}},
	{Category: "Sides", Name: "Chips & Salsa", Price: "3.00", Modifiers: []string{"Guacamole"}},
	{Category: "Sides", Name: "Elote", Description: "Street corn with cotija", Price: "3.50"},
	{Category: "Drinks", Name: "Horchata", Price: "2.75", Modifiers: []string{"Large"}},
	{Category: "Drinks", Name: "Agua Fresca", Price: "2.50", Modifiers: []string{"Large"}},
}

// Apply inserts demo data for manual testing. Upserts make it idempotent and
// the truck only gets a schedule for today when it has none covering now.
func Apply(ctx context.Context, repos Repos, now time.Time) error {
	truck, err := repos.Schedules.UpsertTruck(ctx, domain.Truck{Name: "Demo Truck", Description: "Tacos and friends"})
	if err != nil {
		return fmt.Errorf("upsert truck: %w", err)
	}
	loc, err := repos.Schedules.UpsertLocation(ctx, domain.Location{
		Name:     "Downtown Plaza",
		Address:  "100 Main St",
		City:     "Springfield",
		State:    "IL",
		ZipCode:  "62701",
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	if err := ensureSchedule(ctx, repos.Schedules, truck.ID, loc.ID, now); err != nil {
		return fmt.Errorf("ensure schedule: %w", err)
	}

	categories := make(map[string]int64, len(categorySeeds))
	for _, c := range categorySeeds {
		saved, err := repos.Categories.Upsert(ctx, c)
		if err != nil {
			return fmt.Errorf("upsert category %s: %w", c.Name, err)
		}
		categories[c.Name] = saved.ID
	}

	modifiers := make(map[string]domain.Modifier, len(modifierSeeds))
	for _, m := range modifierSeeds {
		saved, err := repos.Menu.UpsertModifier(ctx, m)
		if err != nil {
			return fmt.Errorf("upsert modifier %s: %w", m.Name, err)
		}
		modifiers[m.Name] = *saved
	}

	for _, it := range itemSeeds {
		item, err := repos.Menu.UpsertItem(ctx, domain.MenuItem{
			CategoryID:  categories[it.Category],
			Name:        it.Name,
			Description: it.Description,
			Price:       decimal.RequireFromString(it.Price),
			IsAvailable: true,
		})
		if err != nil {
			return fmt.Errorf("upsert item %s: %w", it.Name, err)
		}
		for _, name := range it.Modifiers {
			if err := repos.Menu.AttachModifier(ctx, item.ID, modifiers[name]); err != nil {
				return fmt.Errorf("attach %s to %s: %w", name, it.Name, err)
			}
		}
	}
	return nil
}

func ensureSchedule(ctx context.Context, repo scheduleWriter, truckID, locationID int64, now time.Time) error {
	existing, err := repo.ListEndingAfter(ctx, now)
	if err != nil {
		return err
	}
	for _, s := range existing {
		if s.TruckID == truckID && s.Covers(now) {
			return nil
		}
	}
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	_, err = repo.Create(ctx, domain.Schedule{
		TruckID:    truckID,
		LocationID: locationID,
		StartTime:  start,
		EndTime:    start.Add(24*time.Hour - time.Second),
		IsActive:   true,
	})
	return err
}
