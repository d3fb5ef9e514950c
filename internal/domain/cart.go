package domain

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxLineQuantity caps a single cart line, merged adds included.
const MaxLineQuantity = 999

// Cart is the per-session basket. It has no identity of its own; the store
// keys it by session token.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// CartLine is a priced snapshot taken when the item was added.
type CartLine struct {
	MenuItemID      int64           `json:"menuItemId"`
	Name            string          `json:"name"`
	UnitPrice       decimal.Decimal `json:"unitPrice"`
	Quantity        int             `json:"quantity"`
	Notes           string          `json:"notes,omitempty"`
	ModifierIDs     []int64         `json:"modifierIds,omitempty"`
	ModifierSummary string          `json:"modifierSummary,omitempty"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Matches reports whether two lines describe the same configured item.
func (l CartLine) Matches(menuItemID int64, notes string, modifierIDs []int64) bool {
	return l.MenuItemID == menuItemID &&
		l.Notes == NormalizeNotes(notes) &&
		slices.Equal(l.ModifierIDs, NormalizeModifierIDs(modifierIDs))
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, l := range c.Lines {
		total = total.Add(l.LineTotal())
	}
	return total
}

// Total equals Subtotal; there are no taxes or fees.
func (c *Cart) Total() decimal.Decimal {
	return c.Subtotal()
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// NormalizeModifierIDs returns a sorted copy without duplicates.
func NormalizeModifierIDs(ids []int64) []int64 {
	if len(ids) == 0 {
		return nil
	}
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}

func NormalizeNotes(notes string) string {
	return strings.TrimSpace(notes)
}
