package domain

// Category groups menu items. Top-level categories have no parent.
type Category struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Description   string     `json:"description,omitempty"`
	DisplayOrder  int        `json:"displayOrder"`
	ParentID      *int64     `json:"parentCategoryId,omitempty"`
	Items         []MenuItem `json:"items"`
	SubCategories []Category `json:"subCategories,omitempty"`
}
