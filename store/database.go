package store

import (
	"fmt"
	"strings"

	kvstore "github.com/onlyati/kvstore"
)

// ListLevel controls how deep ListKeys descends into subtables.
type ListLevel int

const (
	// OneLevel lists only direct children of the target table.
	OneLevel ListLevel = iota
	// All lists every descendant, recursing into subtables.
	All
)

// ListEntry is one row of a ListKeys result: a full path and the kind
// of entry found there.
type ListEntry struct {
	Path string
	Kind Kind
}

// Database is the in-memory hierarchical tree. It is not safe for
// concurrent use directly; StartDatastore serializes access through a
// single-consumer worker.
type Database struct {
	name string
	root *Table
}

// New allocates a Database whose root table is named name. name must
// not contain "/".
func New(name string) (*Database, error) {
	if strings.Contains(name, "/") {
		return nil, kvstore.WithStack(&kvstore.InvalidRootError{Msg: fmt.Sprintf("root name %q must not contain '/'", name)})
	}
	return &Database{name: name, root: NewTable()}, nil
}

// segments splits and validates a key string, returning the path
// segments below the root name.
func (d *Database) segments(key string) ([]string, error) {
	if !strings.HasPrefix(key, "/") {
		return nil, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("key %q must start with '/'", key)})
	}
	raw := strings.Split(key, "/")
	segs := make([]string, 0, len(raw))
	for _, s := range raw {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) == 0 {
		return nil, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("key %q has no segments", key)})
	}
	if segs[0] != d.name {
		return nil, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("key %q does not start with root %q", key, d.name)})
	}
	return segs[1:], nil
}

// walkTable walks segs as a sequence of table steps starting at root,
// returning the final table. It fails if any segment is missing or
// names a non-table entry.
func walkTable(root *Table, segs []string) (*Table, error) {
	cur := root
	for _, s := range segs {
		v, found := cur.Get(Key{Kind: Table, Name: s})
		if !found {
			return nil, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("table %q not found", s)})
		}
		cur = v.Table
	}
	return cur, nil
}

// Get returns the value stored at key. key must not name a Table.
func (d *Database) Get(key string) (Value, error) {
	segs, err := d.segments(key)
	if err != nil {
		return Value{}, err
	}
	if len(segs) == 0 {
		return Value{}, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "key names the root table"})
	}
	parent, err := walkTable(d.root, segs[:len(segs)-1])
	if err != nil {
		return Value{}, err
	}
	last := segs[len(segs)-1]
	for _, k := range []Kind{Record, Queue} {
		if v, found := parent.Get(Key{Kind: k, Name: last}); found {
			return v.Clone(), nil
		}
	}
	return Value{}, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("key %q not found", key)})
}

// Set stores value as a Record under key, creating any missing
// intermediate tables along the way.
func (d *Database) Set(key, value string) error {
	segs, err := d.segments(key)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "key names the root table"})
	}
	cur := d.root
	for _, s := range segs[:len(segs)-1] {
		k := Key{Kind: Table, Name: s}
		v, found := cur.Get(k)
		if !found {
			child := NewTable()
			cur.Set(k, TableValue(child))
			cur = child
			continue
		}
		if v.Kind != Table {
			return kvstore.WithStack(&kvstore.InternalError{Msg: fmt.Sprintf("%q is not a table", s)})
		}
		cur = v.Table
	}
	last := segs[len(segs)-1]
	cur.Set(Key{Kind: Record, Name: last}, RecordValue(value))
	return nil
}

// DeleteKey removes a Record entry. key must not name a Table.
func (d *Database) DeleteKey(key string) error {
	segs, err := d.segments(key)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "key names the root table"})
	}
	parent, err := walkTable(d.root, segs[:len(segs)-1])
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	if parent.Delete(Key{Kind: Record, Name: last}) {
		return nil
	}
	return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("record %q not found", key)})
}

// DeleteTable removes a Table entry and its entire subtree.
func (d *Database) DeleteTable(key string) error {
	segs, err := d.segments(key)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "cannot delete the root table"})
	}
	parent, err := walkTable(d.root, segs[:len(segs)-1])
	if err != nil {
		return err
	}
	last := segs[len(segs)-1]
	if parent.Delete(Key{Kind: Table, Name: last}) {
		return nil
	}
	return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: fmt.Sprintf("table %q not found", key)})
}

// ListKeys lists entries under prefix. prefix must name a table (the
// root counts). OneLevel lists direct children only; All recurses.
func (d *Database) ListKeys(prefix string, level ListLevel) ([]ListEntry, error) {
	segs, err := d.segments(prefix)
	if err != nil {
		return nil, err
	}
	target, err := walkTable(d.root, segs)
	if err != nil {
		return nil, err
	}
	var out []ListEntry
	display(target, strings.TrimSuffix(prefix, "/"), level, &out)
	return out, nil
}

func display(t *Table, prefix string, level ListLevel, out *[]ListEntry) {
	for k, v := range t.All() {
		path := prefix + "/" + k.Name
		switch k.Kind {
		case Table:
			if level == All {
				display(v.Table, path, level, out)
			}
		default:
			*out = append(*out, ListEntry{Path: path, Kind: k.Kind})
		}
	}
}
