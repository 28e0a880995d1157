package domain

// Sortable registration columns, indexed the way the admin console sends them.
const (
	SortColumnCreateDate = 1
	SortColumnUsername   = 2
	SortColumnEmail      = 3
	SortColumnStatus     = 4
)

type SortSpec struct {
	Column int
	Asc    bool
}

type PageRequest struct {
	Limit  int
	Offset int
}

type Page[T any] struct {
	Total int
	Items []T
}
