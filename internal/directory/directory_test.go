package directory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teacher-registry-backend/internal/model"
)

func TestLookup(t *testing.T) {
	d := Default()

	testCases := []struct {
		name     string
		raw      string
		expected Info
	}{
		{
			name:     "Known school",
			raw:      "101",
			expected: Info{Name: "EE Governador Modelo I", Municipality: "Boa Vista"},
		},
		{
			name:     "Surrounding spaces",
			raw:      " 103 ",
			expected: Info{Name: "Colégio Municipal Doutor Silva", Municipality: "Caracaraí"},
		},
		{
			name:     "Absent id",
			raw:      "9999",
			expected: Info{Name: "ID 9999 (not found)", Municipality: "Unknown"},
		},
		{
			name:     "Not an integer",
			raw:      "abc",
			expected: Info{Name: "Invalid ID", Municipality: "Unknown"},
		},
		{
			name:     "Empty",
			raw:      "",
			expected: Info{Name: "Invalid ID", Municipality: "Unknown"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, d.Lookup(tc.raw))
		})
	}
}

func TestSearch(t *testing.T) {
	d := Default()

	t.Run("Case insensitive substring on name", func(t *testing.T) {
		results := d.Search("ESCOLA")
		ids := make([]int, len(results))
		for i, s := range results {
			ids[i] = s.ID
		}
		assert.Equal(t, []int{104, 105, 107}, ids)
	})

	t.Run("Municipality is not searched", func(t *testing.T) {
		assert.Empty(t, d.Search("Pacaraima"))
	})

	t.Run("Empty query returns everything in order", func(t *testing.T) {
		results := d.Search("")
		assert.Len(t, results, 7)
		assert.Equal(t, 101, results[0].ID)
		assert.Equal(t, 107, results[6].ID)
	})

	t.Run("Accented query", func(t *testing.T) {
		results := d.Search("antônia")
		assert.Len(t, results, 1)
		assert.Equal(t, 102, results[0].ID)
	})
}

func TestNew_InjectedTable(t *testing.T) {
	d := New([]model.School{
		{ID: 1, Name: "Alpha", Municipality: "North"},
		{ID: 1, Name: "Shadowed", Municipality: "South"},
		{ID: 2, Name: "Beta", Municipality: "East"},
	})

	assert.Equal(t, Info{Name: "Alpha", Municipality: "North"}, d.LookupID(1))
	assert.Len(t, d.Search(""), 2)
	assert.Equal(t, Info{Name: "ID 101 (not found)", Municipality: "Unknown"}, d.LookupID(101))
}
