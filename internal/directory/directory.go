package directory

import (
	"fmt"
	"strconv"
	"strings"

	"teacher-registry-backend/internal/model"
)

// UnknownMunicipality is the municipality reported for ids that do not
// resolve. Photos of such teachers land in a folder with this name.
const UnknownMunicipality = "Unknown"

// Info is the result of a directory lookup.
type Info struct {
	Name         string
	Municipality string
}

// Directory is an immutable school table. Lookups never fail.
type Directory struct {
	entries []model.School
	byID    map[int]model.School
}

// New builds a directory from entries, preserving their order.
// Later duplicates of an id are ignored.
func New(entries []model.School) *Directory {
	d := &Directory{byID: make(map[int]model.School, len(entries))}
	for _, e := range entries {
		if _, dup := d.byID[e.ID]; dup {
			continue
		}
		d.entries = append(d.entries, e)
		d.byID[e.ID] = e
	}
	return d
}

// Default returns the production school table.
func Default() *Directory {
	return New([]model.School{
		{ID: 101, Name: "EE Governador Modelo I", Municipality: "Boa Vista"},
		{ID: 102, Name: "CE Professora Antônia Santos", Municipality: "Boa Vista"},
		{ID: 103, Name: "Colégio Municipal Doutor Silva", Municipality: "Caracaraí"},
		{ID: 104, Name: "Escola Estadual Simplificada A", Municipality: "Rorainópolis"},
		{ID: 105, Name: "Escola Municipal Teste B", Municipality: "Cantá"},
		{ID: 106, Name: "Centro de Educação Integral C", Municipality: "Boa Vista"},
		{ID: 107, Name: "Escola de Fronteira XYZ", Municipality: "Pacaraima"},
	})
}

// Lookup resolves a raw school id as received from a form.
func (d *Directory) Lookup(raw string) Info {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return Info{Name: "Invalid ID", Municipality: UnknownMunicipality}
	}
	return d.LookupID(id)
}

// LookupID resolves an already parsed school id.
func (d *Directory) LookupID(id int) Info {
	if s, ok := d.byID[id]; ok {
		return Info{Name: s.Name, Municipality: s.Municipality}
	}
	return Info{Name: fmt.Sprintf("ID %d (not found)", id), Municipality: UnknownMunicipality}
}

// Search returns the schools whose name contains query, ignoring case.
// An empty query matches every school.
func (d *Directory) Search(query string) []model.School {
	q := strings.ToLower(query)
	results := make([]model.School, 0, len(d.entries))
	for _, s := range d.entries {
		if strings.Contains(strings.ToLower(s.Name), q) {
			results = append(results, s)
		}
	}
	return results
}
