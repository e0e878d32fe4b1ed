package form

// Expansion tracks which list rows are expanded, keyed by row identity.
// Rows never toggled fall back to the default predicate.
type Expansion struct {
	open       map[string]bool
	defaultFor func(id string) bool
}

func NewExpansion(defaultFor func(id string) bool) *Expansion {
	if defaultFor == nil {
		defaultFor = func(string) bool { return false }
	}
	return &Expansion{open: make(map[string]bool), defaultFor: defaultFor}
}

func (e *Expansion) Expanded(id string) bool {
	if v, ok := e.open[id]; ok {
		return v
	}
	return e.defaultFor(id)
}

// Toggle flips the row and returns its new state.
func (e *Expansion) Toggle(id string) bool {
	next := !e.Expanded(id)
	e.open[id] = next
	return next
}

func (e *Expansion) Set(id string, expanded bool) {
	e.open[id] = expanded
}

// Forget drops local state for a removed row.
func (e *Expansion) Forget(id string) {
	delete(e.open, id)
}
