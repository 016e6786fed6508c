package model

// School is an entry of the static school directory.
type School struct {
	ID           int
	Name         string
	Municipality string
}
