package model

// CategoryAll is the filter sentinel selecting every category.
const CategoryAll = "all"

// Category is read-only from the client's perspective. It serves both as a
// filter key and as the enum for the create/edit form.
type Category struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Slug         string  `json:"slug"`
	Description  *string `json:"description,omitempty"`
	Image        string  `json:"image"`
	RecipesCount int     `json:"recipes_count"`
}

// FilterCriteria is the pure value whose replacement is the sole trigger for
// a catalog refetch.
type FilterCriteria struct {
	SearchTerm string
	CategoryID string
}

// DefaultFilter matches everything.
func DefaultFilter() FilterCriteria {
	return FilterCriteria{CategoryID: CategoryAll}
}
