package model

// Resource is a named, binary-available system resource.
type Resource struct {
	Name      string
	Available bool
}

// Table is the flat, ordered collection of system resources shared by
// every process in a run. Duplicate names are tolerated rather than
// rejected (a loader may produce them); lookups resolve duplicates the
// same way the queues resolve ties, by scanning in load order.
type Table struct {
	resources []*Resource
}

// NewTable builds a table with every named resource available.
func NewTable(names ...string) *Table {
	t := &Table{}
	for _, name := range names {
		t.Add(name)
	}
	return t
}

// Add appends a resource in the available state. Duplicates are kept.
func (t *Table) Add(name string) {
	t.resources = append(t.resources, &Resource{Name: name, Available: true})
}

// Acquire flips the first available entry with the given name to
// unavailable and returns a copy of it. With duplicate names an
// unavailable first entry does not shadow an available later one.
func (t *Table) Acquire(name string) (Resource, bool) {
	for _, r := range t.resources {
		if r.Name == name && r.Available {
			r.Available = false
			return *r, true
		}
	}
	return Resource{}, false
}

// MakeAvailable flips the first entry with the given name back to
// available. Unknown names are ignored.
func (t *Table) MakeAvailable(name string) {
	for _, r := range t.resources {
		if r.Name == name {
			r.Available = true
			return
		}
	}
}

// IsAvailable reports the availability of the first entry with the
// given name; unknown names report false.
func (t *Table) IsAvailable(name string) bool {
	for _, r := range t.resources {
		if r.Name == name {
			return r.Available
		}
	}
	return false
}

// Len returns the number of table entries, duplicates included.
func (t *Table) Len() int {
	return len(t.resources)
}

// Snapshot returns a copy of every entry in load order.
func (t *Table) Snapshot() []Resource {
	out := make([]Resource, 0, len(t.resources))
	for _, r := range t.resources {
		out = append(out, *r)
	}
	return out
}
