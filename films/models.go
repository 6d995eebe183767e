// Package films serves the film catalog: listing with search, filtering and
// sorting, single-film lookup, and the distinct director/year lists the
// frontend uses to build its filter dropdowns. The catalog is read-only at
// runtime; rows are seeded once from an embedded snapshot.
package films

// Film mirrors one entry of the Ghibli catalog snapshot.
type Film struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	OriginalTitle string `json:"original_title"`
	Description   string `json:"description"`
	Director      string `json:"director"`
	Producer      string `json:"producer"`
	ReleaseDate   string `json:"release_date"`
	RunningTime   string `json:"running_time"`
	RTScore       string `json:"rt_score"`
	Image         string `json:"image"`
	MovieBanner   string `json:"movie_banner"`
}

// ListQuery carries the supported catalog query parameters.
type ListQuery struct {
	Search   string // case-insensitive title substring
	Director string // exact director match
	Year     string // exact release year match
	Sort     string // whitelisted column name
	Order    string // "asc" (default) or "desc"
}
