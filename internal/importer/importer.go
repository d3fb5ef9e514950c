package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"foodtruck-ordering/internal/domain"
	"github.com/shopspring/decimal"
)

type CategoryWriter interface {
	Upsert(ctx context.Context, c domain.Category) (*domain.Category, error)
}

type MenuWriter interface {
	UpsertItem(ctx context.Context, item domain.MenuItem) (*domain.MenuItem, error)
	UpsertModifier(ctx context.Context, m domain.Modifier) (*domain.Modifier, error)
	AttachModifier(ctx context.Context, itemID int64, m domain.Modifier) error
}

// CSVImporter loads a menu export and inserts/updates categories, items and
// their modifiers.
//
// Expected headers: category, name, description, price, available,
// modifier.name, modifier.price. A row with an empty name continues the
// previous item and only contributes a modifier.
type CSVImporter struct {
	reader     *csv.Reader
	categories CategoryWriter
	menu       MenuWriter

	categoryIDs map[string]int64
}

func NewCSVImporter(r io.Reader, categories CategoryWriter, menu MenuWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		categories:  categories,
		menu:        menu,
		categoryIDs: map[string]int64{},
	}
}

type csvRow struct {
	Line      int
	Category  string
	Name      string
	Desc      string
	Price     decimal.Decimal
	Available bool
	Modifiers []domain.Modifier
}

// Run parses CSV rows and upserts items grouped by name. It returns the
// number of items written.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	for _, required := range []string{"category", "name", "price"} {
		if _, ok := index[required]; !ok {
			return 0, fmt.Errorf("missing required column %q", required)
		}
	}

	var (
		current  *csvRow
		imported int
		line     = 1
	)

	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line++

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}

		if row.Name != "" {
			if current != nil {
				if err := i.save(ctx, current); err != nil {
					return imported, err
				}
				imported++
			}
			current = row
			continue
		}

		// Continuation rows (modifiers) belong to the current item.
		if current != nil {
			current.Modifiers = append(current.Modifiers, row.Modifiers...)
		}
	}

	if current != nil {
		if err := i.save(ctx, current); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Category == "" {
		return fmt.Errorf("line %d: item %q has no category", row.Line, row.Name)
	}
	if row.Price.IsNegative() {
		return fmt.Errorf("line %d: item %q has a negative price", row.Line, row.Name)
	}

	categoryID, err := i.categoryID(ctx, row.Category)
	if err != nil {
		return err
	}

	item, err := i.menu.UpsertItem(ctx, domain.MenuItem{
		CategoryID:  categoryID,
		Name:        row.Name,
		Description: row.Desc,
		Price:       row.Price,
		IsAvailable: row.Available,
	})
	if err != nil {
		return fmt.Errorf("upsert item %q: %w", row.Name, err)
	}

	for _, m := range row.Modifiers {
		saved, err := i.menu.UpsertModifier(ctx, m)
		if err != nil {
			return fmt.Errorf("upsert modifier %q: %w", m.Name, err)
		}
		saved.MaxSelections = 1
		if err := i.menu.AttachModifier(ctx, item.ID, *saved); err != nil {
			return fmt.Errorf("attach modifier %q to %q: %w", m.Name, row.Name, err)
		}
	}
	return nil
}

func (i *CSVImporter) categoryID(ctx context.Context, name string) (int64, error) {
	if id, ok := i.categoryIDs[name]; ok {
		return id, nil
	}
	c, err := i.categories.Upsert(ctx, domain.Category{Name: name, DisplayOrder: len(i.categoryIDs) + 1})
	if err != nil {
		return 0, fmt.Errorf("upsert category %q: %w", name, err)
	}
	i.categoryIDs[name] = c.ID
	return c.ID, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	name := pick(record, index, "name")
	modName := pick(record, index, "modifier.name")
	if name == "" && modName == "" {
		return nil, nil
	}

	row := &csvRow{
		Line:      line,
		Category:  pick(record, index, "category"),
		Name:      name,
		Desc:      pick(record, index, "description"),
		Available: true,
	}
	if name != "" {
		price, err := decimal.NewFromString(pick(record, index, "price"))
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid price for %q: %w", line, name, err)
		}
		row.Price = price
		if raw := pick(record, index, "available"); raw != "" {
			ok, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid available flag %q", line, raw)
			}
			row.Available = ok
		}
	}
	if modName != "" {
		delta := decimal.Zero
		if raw := pick(record, index, "modifier.price"); raw != "" {
			d, err := decimal.NewFromString(strings.TrimPrefix(raw, "+"))
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid modifier price for %q: %w", line, modName, err)
			}
			delta = d
		}
		row.Modifiers = []domain.Modifier{{Name: modName, PriceDelta: delta}}
	}
	return row, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
