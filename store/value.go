package store

import "github.com/onlyati/kvstore/structs"

// Value is a tagged union over the three leaf/internal value shapes a
// tree entry can hold. Exactly one of Record, Table, QueueVal is set,
// matching the Kind of the Key it is stored under (invariant I3).
type Value struct {
	Kind     Kind
	Record   string
	Table    *Table
	QueueVal *structs.Queue
}

// RecordValue builds a Record-kind value.
func RecordValue(s string) Value {
	return Value{Kind: Record, Record: s}
}

// TableValue builds a Table-kind value wrapping t.
func TableValue(t *Table) Value {
	return Value{Kind: Table, Table: t}
}

// QueueValue builds a Queue-kind value wrapping q.
func QueueValue(q *structs.Queue) Value {
	return Value{Kind: Queue, QueueVal: q}
}

// Clone returns a deep copy of v, following table and queue subtrees.
func (v Value) Clone() Value {
	switch v.Kind {
	case Table:
		return TableValue(v.Table.Clone())
	case Queue:
		if v.QueueVal == nil {
			return QueueValue(structs.NewQueue())
		}
		return QueueValue(v.QueueVal.Clone())
	default:
		return v
	}
}
