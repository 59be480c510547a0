package feed

import (
	"fmt"
	"strings"
)

const CategoryAll = "1"

// Category is a feed filter. An item matches when its lowercased action contains any keyword;
// a category without keywords matches everything. Substring matching is inherited behaviour,
// so "goal disallowed" also matches Goal.
type Category struct {
	ID       string
	Label    string
	Keywords []string
}

var categories = []Category{
	{ID: CategoryAll, Label: "For You"},
	{ID: "2", Label: "Goal", Keywords: []string{"goal"}},
	{ID: "3", Label: "Yellow Card", Keywords: []string{"yellow card"}},
	{ID: "4", Label: "Shot", Keywords: []string{"shot"}},
	{ID: "5", Label: "Substitution", Keywords: []string{"substitution"}},
}

func Categories() []Category {
	out := make([]Category, len(categories))
	copy(out, categories)
	return out
}

func LookupCategory(id string) (Category, error) {
	id = strings.TrimSpace(id)
	for _, category := range categories {
		if category.ID == id {
			return category, nil
		}
	}
	return Category{}, fmt.Errorf("%w: %q", ErrUnknownCategory, id)
}

func (c Category) Matches(item Item) bool {
	if len(c.Keywords) == 0 {
		return true
	}
	action := strings.ToLower(item.Action)
	for _, keyword := range c.Keywords {
		if strings.Contains(action, keyword) {
			return true
		}
	}
	return false
}

// ApplyCategory keeps the items matching category id, preserving order.
func ApplyCategory(items []Item, id string) ([]Item, error) {
	category, err := LookupCategory(id)
	if err != nil {
		return nil, err
	}

	out := make([]Item, 0, len(items))
	for _, item := range items {
		if category.Matches(item) {
			out = append(out, item)
		}
	}
	return out, nil
}

// Paginate returns the cumulative window items[:min(len, page*size)]. page < 1 reads as 1.
func Paginate(items []Item, page, size int) []Item {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = PageSize
	}
	end := min(len(items), page*size)
	out := make([]Item, end)
	copy(out, items[:end])
	return out
}
