package store

import "fmt"

// Kind tags which variant of entry a Key names.
type Kind int

const (
	// Record is a leaf string value.
	Record Kind = iota
	// Queue is a leaf FIFO-of-strings value.
	Queue
	// Table is an internal node holding child entries.
	Table
)

func (k Kind) String() string {
	switch k {
	case Record:
		return "r"
	case Queue:
		return "q"
	case Table:
		return "t"
	default:
		return "?"
	}
}

// Key identifies one entry in a table: its kind and its local name
// (the last path segment, not the full route from root).
type Key struct {
	Kind Kind
	Name string
}

func (k Key) String() string {
	return fmt.Sprintf("%s %s", k.Kind, k.Name)
}

// Less orders keys by name first; on a name tie, Record sorts first,
// then Queue, then Table. Distinct ranks keep a Record and a Queue
// sharing a name (allowed by I4, since their kinds differ) apart, so
// Table's binary search finds each of them.
func (k Key) Less(o Key) bool {
	if k.Name != o.Name {
		return k.Name < o.Name
	}
	return rank(k.Kind) < rank(o.Kind)
}

func (k Key) Equal(o Key) bool {
	return k.Kind == o.Kind && k.Name == o.Name
}

func rank(k Kind) int {
	switch k {
	case Table:
		return 2
	case Queue:
		return 1
	default:
		return 0
	}
}
