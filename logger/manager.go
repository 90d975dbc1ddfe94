package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	kvstore "github.com/onlyati/kvstore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// State is one of the three logger lifecycle states.
type State int

const (
	Closed State = iota
	Open
	Suspended
)

type bufferedItem struct {
	at   time.Time
	item Item
}

// manager owns the rotating file handle and the spill buffer used
// while suspended. It is not safe for concurrent use directly; the
// worker goroutine is its only caller.
type manager struct {
	path   string
	state  State
	file   *lumberjack.Logger
	buffer []bufferedItem
}

func newManager(path string) *manager {
	return &manager{path: path, state: Closed}
}

// open (re)creates the rotating writer. lumberjack opens the
// underlying file lazily on first Write and appends to it rather than
// truncating, so resume after suspend continues the same file unless
// a rotation boundary was crossed meanwhile.
func (m *manager) open() *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   m.path,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     365,
		Compress:   true,
	}
}

func (m *manager) start() error {
	// lumberjack creates missing parent directories on its own; a log
	// path in a nonexistent directory is rejected here instead.
	if _, err := os.Stat(filepath.Dir(m.path)); err != nil {
		return kvstore.WithStack(err)
	}
	m.file = m.open()
	// force the handle open now so a permission or path error surfaces
	// immediately rather than on the first real write.
	if _, err := m.file.Write(nil); err != nil {
		m.file = nil
		return kvstore.WithStack(err)
	}
	m.state = Open
	return nil
}

func (m *manager) stop() error {
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			return kvstore.WithStack(err)
		}
		m.file = nil
	}
	m.state = Closed
	return nil
}

func (m *manager) suspend() error {
	if m.file != nil {
		if err := m.file.Close(); err != nil {
			return kvstore.WithStack(err)
		}
		m.file = nil
	}
	m.state = Suspended
	return nil
}

func (m *manager) resume() error {
	if m.state != Suspended {
		return kvstore.WithStack(&kvstore.LogError{Msg: "resume requires the logger to be suspended"})
	}
	if err := m.start(); err != nil {
		return err
	}
	for _, b := range m.buffer {
		if err := m.writeLine(b.at, b.item); err != nil {
			return err
		}
	}
	m.buffer = nil
	return nil
}

func (m *manager) writeLine(at time.Time, item Item) error {
	line := fmt.Sprintf("%s %s\n", at.Format(time.RFC3339Nano), item.String())
	if _, err := m.file.Write([]byte(line)); err != nil {
		return kvstore.WithStack(err)
	}
	return nil
}

func (m *manager) write(item Item) error {
	now := time.Now().UTC()
	switch m.state {
	case Open:
		return m.writeLine(now, item)
	case Suspended:
		m.buffer = append(m.buffer, bufferedItem{at: now, item: item})
		return nil
	default:
		return kvstore.WithStack(&kvstore.LogError{Msg: "stream is closed, start required for logger"})
	}
}
