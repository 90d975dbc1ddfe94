package store

import (
	"iter"
	"sort"
)

type entry struct {
	key   Key
	value Value
}

// Table is an ordered mapping from Key to Value, kept sorted by
// Key.Less. The original B-tree-backed dbm.Tree this is modeled on
// exists to give durable, disk-backed iteration; since the tree here
// is explicitly non-durable, a sorted slice gives the same ordered
// iteration contract with none of the storage machinery.
type Table struct {
	entries []entry
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) search(k Key) (int, bool) {
	i := sort.Search(len(t.entries), func(i int) bool {
		return !t.entries[i].key.Less(k)
	})
	if i < len(t.entries) && t.entries[i].key.Equal(k) {
		return i, true
	}
	return i, false
}

// Get returns the value stored under k, if any.
func (t *Table) Get(k Key) (Value, bool) {
	i, found := t.search(k)
	if !found {
		return Value{}, false
	}
	return t.entries[i].value, true
}

// Set inserts or overwrites the value stored under k.
func (t *Table) Set(k Key, v Value) {
	i, found := t.search(k)
	if found {
		t.entries[i].value = v
		return
	}
	t.entries = append(t.entries, entry{})
	copy(t.entries[i+1:], t.entries[i:])
	t.entries[i] = entry{key: k, value: v}
}

// Delete removes the entry stored under k, reporting whether it
// existed.
func (t *Table) Delete(k Key) bool {
	i, found := t.search(k)
	if !found {
		return false
	}
	t.entries = append(t.entries[:i], t.entries[i+1:]...)
	return true
}

// Len reports the number of entries in the table.
func (t *Table) Len() int {
	return len(t.entries)
}

// All iterates entries in sorted order.
func (t *Table) All() iter.Seq2[Key, Value] {
	return func(yield func(Key, Value) bool) {
		for _, e := range t.entries {
			if !yield(e.key, e.value) {
				return
			}
		}
	}
}

// Clone returns a deep copy of the table, recursing into child
// tables and queues.
func (t *Table) Clone() *Table {
	out := &Table{entries: make([]entry, len(t.entries))}
	for i, e := range t.entries {
		out.entries[i] = entry{key: e.key, value: e.value.Clone()}
	}
	return out
}
