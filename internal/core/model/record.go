package model

// Record is one projected document returned by a store.
type Record map[string]any

// Title returns the record's title and whether it holds a string.
func (r Record) Title() (string, bool) {
	t, ok := r["title"].(string)
	return t, ok
}
