package domain

import "github.com/shopspring/decimal"

type MenuItem struct {
	ID          int64           `json:"id"`
	CategoryID  int64           `json:"categoryId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	IsAvailable bool            `json:"isAvailable"`
	Modifiers   []Modifier      `json:"modifiers,omitempty"`
}

// Modifier is an option attachable to menu items, priced as a delta.
type Modifier struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	Type          string          `json:"type,omitempty"`
	PriceDelta    decimal.Decimal `json:"priceDelta"`
	MinSelections int             `json:"minSelections"`
	MaxSelections int             `json:"maxSelections"`
}

// Modifier returns the attached modifier with the given id.
func (m *MenuItem) Modifier(id int64) (Modifier, bool) {
	for _, mod := range m.Modifiers {
		if mod.ID == id {
			return mod, true
		}
	}
	return Modifier{}, false
}
