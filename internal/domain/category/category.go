package category

type Category struct {
	ID          int64
	Department  string
	Name        string
	Slug        string
	Description string
	IsActive    bool
}

type ListFilter struct {
	Department string
	OnlyActive bool
}
