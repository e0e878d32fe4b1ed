package analytics

import (
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/PabloPavan/sellerdesk/internal/form"
)

// NewSnippetIDPrefix marks ids generated client-side for unsaved snippets.
const NewSnippetIDPrefix = "__SELLERDESK"

// IDGenerator produces synthetic snippet ids.
type IDGenerator func() string

func NewSyntheticID() string {
	return NewSnippetIDPrefix + uuid.NewString()
}

func IsSynthetic(id string) bool {
	return strings.HasPrefix(id, NewSnippetIDPrefix)
}

func snippetKey(s Snippet) string { return s.Key() }

// NewSnippet returns a blank snippet carrying id.
func NewSnippet(id string) Snippet {
	return Snippet{
		ID:       StringPtr(id),
		Name:     "",
		Location: LocationReceipt,
		Code:     "",
		Product:  nil,
	}
}

// AddSnippet appends a blank snippet with a fresh synthetic id and returns
// the new list and that id. Ids already present in the list are never reused.
func AddSnippet(list []Snippet, gen IDGenerator) ([]Snippet, string) {
	if gen == nil {
		gen = NewSyntheticID
	}
	id := gen()
	if !IsSynthetic(id) {
		id = NewSnippetIDPrefix + id
	}
	for n := 1; id == "" || form.ContainsKey(list, id, snippetKey); n++ {
		id = gen()
		if !IsSynthetic(id) {
			id = NewSnippetIDPrefix + id
		}
		if n > 8 {
			id = id + "-" + strconv.Itoa(n)
		}
	}
	return form.AppendItem(cloneSnippets(list), NewSnippet(id)), id
}

// UpdateSnippet merges patch into the snippet with the given id. Unknown ids
// leave the list unchanged.
func UpdateSnippet(list []Snippet, id string, patch SnippetPatch) []Snippet {
	return form.UpdateItem(cloneSnippets(list), id, snippetKey, patch.Apply)
}

func RemoveSnippet(list []Snippet, id string) []Snippet {
	return form.RemoveItem(cloneSnippets(list), id, snippetKey)
}

// StripSyntheticIDs clears ids that were generated client-side so the server
// creates those snippets.
func StripSyntheticIDs(s Settings) Settings {
	out := s.Clone()
	for i := range out.Snippets {
		if id := out.Snippets[i].ID; id != nil && (*id == "" || IsSynthetic(*id)) {
			out.Snippets[i].ID = nil
		}
	}
	return out
}
