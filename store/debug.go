package store

import (
	"fmt"
	"os"

	"github.com/rodaine/table"
)

// Dump prints the full tree to stdout as a two-column table of path
// and kind, for interactive debugging. It does not go through the
// worker, so callers must ensure no concurrent writer is running.
func (d *Database) Dump() {
	entries, err := d.ListKeys("/"+d.name, All)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return
	}
	tbl := table.New("Path", "Kind")
	for _, e := range entries {
		tbl.AddRow(e.Path, e.Kind.String())
	}
	tbl.Print()
}
