package department

// Department groups categories on the storefront's top navigation.
// Categories point at a department through its slug.
type Department struct {
	ID          int64
	Name        string
	Slug        string
	Description string
	BannerURL   string
}
