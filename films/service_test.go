package films

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildListSQL_NoFilters(t *testing.T) {
	t.Parallel()

	sql, args := BuildListSQL(ListQuery{})
	assert.Empty(t, args)
	assert.NotContains(t, sql, "WHERE")
	assert.True(t, strings.HasSuffix(sql, "ORDER BY release_date ASC"))
}

func TestBuildListSQL_Filters(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    ListQuery
		wantSQL  []string
		wantArgs []interface{}
	}{
		{
			name:     "search only",
			query:    ListQuery{Search: "totoro"},
			wantSQL:  []string{"title ILIKE $1"},
			wantArgs: []interface{}{"%totoro%"},
		},
		{
			name:     "director only",
			query:    ListQuery{Director: "Hayao Miyazaki"},
			wantSQL:  []string{"director = $1"},
			wantArgs: []interface{}{"Hayao Miyazaki"},
		},
		{
			name:     "year only",
			query:    ListQuery{Year: "1988"},
			wantSQL:  []string{"release_date = $1"},
			wantArgs: []interface{}{"1988"},
		},
		{
			name:    "all filters number placeholders in order",
			query:   ListQuery{Search: "kiki", Director: "Hayao Miyazaki", Year: "1989"},
			wantSQL: []string{"title ILIKE $1", "director = $2", "release_date = $3", " AND "},
			wantArgs: []interface{}{
				"%kiki%", "Hayao Miyazaki", "1989",
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sql, args := BuildListSQL(tc.query)
			assert.Contains(t, sql, "WHERE")
			for _, fragment := range tc.wantSQL {
				assert.Contains(t, sql, fragment)
			}
			assert.Equal(t, tc.wantArgs, args)
		})
	}
}

func TestBuildListSQL_Sorting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		query ListQuery
		want  string
	}{
		{"default", ListQuery{}, "ORDER BY release_date ASC"},
		{"by title", ListQuery{Sort: "title"}, "ORDER BY title ASC"},
		{"by score desc", ListQuery{Sort: "rt_score", Order: "desc"}, "ORDER BY rt_score DESC"},
		{"order is case-insensitive", ListQuery{Sort: "title", Order: "DESC"}, "ORDER BY title DESC"},
		{"unknown column falls back", ListQuery{Sort: "password_hash"}, "ORDER BY release_date ASC"},
		{"injection attempt falls back", ListQuery{Sort: "title; DROP TABLE films"}, "ORDER BY release_date ASC"},
		{"unknown order falls back to asc", ListQuery{Sort: "title", Order: "sideways"}, "ORDER BY title ASC"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			sql, _ := BuildListSQL(tc.query)
			assert.True(t, strings.HasSuffix(sql, tc.want), "got %q", sql)
		})
	}
}

// The embedded snapshot is what Seed loads on first boot, so it has to parse
// and carry the fields the catalog queries select.
func TestEmbeddedSeedData(t *testing.T) {
	t.Parallel()

	data, err := seedFS.ReadFile("ghibli-data.json")
	require.NoError(t, err)

	var films []Film
	require.NoError(t, json.Unmarshal(data, &films))
	require.NotEmpty(t, films)

	seen := make(map[string]bool, len(films))
	for _, f := range films {
		assert.NotEmpty(t, f.ID, "film %q has no id", f.Title)
		assert.NotEmpty(t, f.Title)
		assert.NotEmpty(t, f.Director, "film %q has no director", f.Title)
		assert.NotEmpty(t, f.ReleaseDate, "film %q has no release date", f.Title)
		assert.False(t, seen[f.ID], "duplicate film id %s", f.ID)
		seen[f.ID] = true
	}
}
