package menu

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"foodtruck-ordering/internal/domain"
)

type items interface {
	GetItem(ctx context.Context, id int64) (*domain.MenuItem, error)
	ListAvailable(ctx context.Context) ([]domain.MenuItem, error)
}

type categories interface {
	List(ctx context.Context) ([]domain.Category, error)
}

type Service struct {
	items      items
	categories categories
}

func New(items items, categories categories) *Service {
	return &Service{items: items, categories: categories}
}

// Filter narrows the menu. Zero value shows everything available.
type Filter struct {
	Search      string
	CategoryIDs []int64
}

// ActiveMenu returns top-level categories in display order, each holding
// its available items and one level of sub-categories.
func (s *Service) ActiveMenu(ctx context.Context, f Filter) ([]domain.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	available, err := s.items.ListAvailable(ctx)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(f.Search))
	byCategory := make(map[int64][]domain.MenuItem)
	for _, it := range available {
		if term != "" && !matches(it, term) {
			continue
		}
		byCategory[it.CategoryID] = append(byCategory[it.CategoryID], it)
	}

	children := make(map[int64][]domain.Category)
	var roots []domain.Category
	for _, c := range cats {
		c.Items = byCategory[c.ID]
		if c.Items == nil {
			c.Items = []domain.MenuItem{}
		}
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		children[*c.ParentID] = append(children[*c.ParentID], c)
	}

	out := make([]domain.Category, 0, len(roots))
	for _, root := range roots {
		root.SubCategories = children[root.ID]
		if !selected(root, f.CategoryIDs) {
			continue
		}
		if term != "" && countItems(root) == 0 {
			continue
		}
		out = append(out, root)
	}
	return out, nil
}

// Item returns an available menu item.
func (s *Service) Item(ctx context.Context, id int64) (*domain.MenuItem, error) {
	it, err := s.items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !it.IsAvailable {
		return nil, fmt.Errorf("%w: menu item %d", domain.ErrNotFound, id)
	}
	return it, nil
}

func matches(it domain.MenuItem, term string) bool {
	return strings.Contains(strings.ToLower(it.Name), term) ||
		strings.Contains(strings.ToLower(it.Description), term)
}

func selected(root domain.Category, ids []int64) bool {
	if len(ids) == 0 || slices.Contains(ids, root.ID) {
		return true
	}
	for _, sub := range root.SubCategories {
		if slices.Contains(ids, sub.ID) {
			return true
		}
	}
	return false
}

func countItems(c domain.Category) int {
	n := len(c.Items)
	for _, sub := range c.SubCategories {
		n += len(sub.Items)
	}
	return n
}
