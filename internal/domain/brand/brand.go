package brand

const (
	MinNameLength = 3
	MaxNameLength = 70
)

type Brand struct {
	ID      int64
	Name    string
	Slug    string
	LogoURL string
}

type ListFilter struct {
	Search string
}
