package subcategory

type SubCategory struct {
	ID         int64
	CategoryID int64
	Name       string
	Slug       string
}

type ListFilter struct {
	CategoryID *int64
	// Search matches a substring of the name.
	Search string
}
