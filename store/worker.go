package store

import (
	"sync"

	kvstore "github.com/onlyati/kvstore"
	"github.com/onlyati/kvstore/hook"
	"github.com/onlyati/kvstore/logger"
)

type getReq struct {
	key   string
	reply chan getResult
}
type getResult struct {
	value Value
	err   error
}

type setReq struct {
	key, value string
	reply      chan error
}

type deleteKeyReq struct {
	key   string
	reply chan error
}

type deleteTableReq struct {
	key   string
	reply chan error
}

type listKeysReq struct {
	prefix string
	level  ListLevel
	reply  chan listResult
}
type listResult struct {
	entries []ListEntry
	err     error
}

type hookSetReq struct {
	prefix, link string
	reply        chan error
}
type hookRemoveReq struct {
	prefix, link string
	reply        chan error
}
type hookGetReq struct {
	prefix string
	reply  chan hookGetResult
}
type hookGetResult struct {
	entry hook.Entry
	err   error
}
type hookListReq struct {
	prefix string
	reply  chan []hook.Entry
}

type logStateReq struct {
	reply chan error
}

// Sender is the public handle for the datastore worker. All methods
// are safe for concurrent use by multiple goroutines.
type Sender struct {
	get         chan getReq
	set         chan setReq
	deleteKey   chan deleteKeyReq
	deleteTable chan deleteTableReq
	listKeys    chan listKeysReq
	hookSet     chan hookSetReq
	hookRemove  chan hookRemoveReq
	hookGet     chan hookGetReq
	hookList    chan hookListReq
	suspendLog  chan logStateReq
	resumeLog   chan logStateReq
	closed      chan struct{}
	once        sync.Once
}

// StartDatastore allocates a Database named name and launches its
// worker goroutine. hooks and logs are both optional: a nil hooks
// sender makes HookSet, HookGet and HookRemove reply
// kvstore.ErrInactiveHookManager and HookList return an empty list, and
// a nil logs sender silently disables audit logging.
func StartDatastore(name string, hooks *hook.Sender, logs *logger.Sender) (*Sender, *sync.WaitGroup, error) {
	db, err := New(name)
	if err != nil {
		return nil, nil, err
	}
	s := &Sender{
		get:         make(chan getReq),
		set:         make(chan setReq),
		deleteKey:   make(chan deleteKeyReq),
		deleteTable: make(chan deleteTableReq),
		listKeys:    make(chan listKeysReq),
		hookSet:     make(chan hookSetReq),
		hookRemove:  make(chan hookRemoveReq),
		hookGet:     make(chan hookGetReq),
		hookList:    make(chan hookListReq),
		suspendLog:  make(chan logStateReq),
		resumeLog:   make(chan logStateReq),
		closed:      make(chan struct{}),
	}
	wg := &sync.WaitGroup{}
	wg.Add(1)
	go s.run(db, hooks, logs, wg)
	return s, wg, nil
}

func (s *Sender) run(db *Database, hooks *hook.Sender, logs *logger.Sender, wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		select {
		case r := <-s.get:
			v, err := db.Get(r.key)
			r.reply <- getResult{value: v, err: err}
			if err == nil && logs != nil {
				logs.WriteAsync(logger.GetKeyItem{Key: r.key})
			}
		case r := <-s.set:
			err := db.Set(r.key, r.value)
			r.reply <- err
			if err == nil {
				if logs != nil {
					logs.WriteAsync(logger.SetKeyItem{Key: r.key, Value: r.value})
				}
				if hooks != nil {
					hooks.SendAsync(r.key, r.value)
				}
			}
		case r := <-s.deleteKey:
			err := db.DeleteKey(r.key)
			r.reply <- err
			if err == nil && logs != nil {
				logs.WriteAsync(logger.RemKeyItem{Key: r.key})
			}
		case r := <-s.deleteTable:
			err := db.DeleteTable(r.key)
			r.reply <- err
			if err == nil && logs != nil {
				logs.WriteAsync(logger.RemPathItem{Key: r.key})
			}
		case r := <-s.listKeys:
			entries, err := db.ListKeys(r.prefix, r.level)
			r.reply <- listResult{entries: entries, err: err}
			if err == nil && logs != nil {
				logs.WriteAsync(logger.ListKeysItem{Key: r.prefix})
			}
		case r := <-s.hookSet:
			r.reply <- s.doHookSet(hooks, logs, r.prefix, r.link)
		case r := <-s.hookRemove:
			r.reply <- s.doHookRemove(hooks, logs, r.prefix, r.link)
		case r := <-s.hookGet:
			entry, err := s.doHookGet(hooks, logs, r.prefix)
			r.reply <- hookGetResult{entry: entry, err: err}
		case r := <-s.hookList:
			r.reply <- s.doHookList(hooks, logs, r.prefix)
		case r := <-s.suspendLog:
			r.reply <- doLogState(logs, (*logger.Sender).Suspend)
		case r := <-s.resumeLog:
			r.reply <- doLogState(logs, (*logger.Sender).Resume)
		case <-s.closed:
			return
		}
	}
}

func (s *Sender) doHookSet(hooks *hook.Sender, logs *logger.Sender, prefix, link string) error {
	if hooks == nil {
		return kvstore.ErrInactiveHookManager
	}
	err := hooks.Set(prefix, link)
	if logs != nil {
		logs.WriteAsync(logger.SetHookItem{Prefix: prefix, Link: link})
	}
	if err != nil {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: err.Error()})
	}
	return nil
}

func (s *Sender) doHookRemove(hooks *hook.Sender, logs *logger.Sender, prefix, link string) error {
	if hooks == nil {
		return kvstore.ErrInactiveHookManager
	}
	err := hooks.Remove(prefix, link)
	if logs != nil {
		logs.WriteAsync(logger.RemHookItem{Prefix: prefix, Link: link})
	}
	if err != nil {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: err.Error()})
	}
	return nil
}

func (s *Sender) doHookGet(hooks *hook.Sender, logs *logger.Sender, prefix string) (hook.Entry, error) {
	if hooks == nil {
		return hook.Entry{}, kvstore.ErrInactiveHookManager
	}
	entry, found := hooks.Get(prefix)
	if logs != nil {
		link := ""
		if len(entry.Links) > 0 {
			link = entry.Links[0]
		}
		logs.WriteAsync(logger.GetHookItem{Prefix: prefix, Link: link})
	}
	if !found {
		return hook.Entry{}, kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "hook is not found"})
	}
	return entry, nil
}

func (s *Sender) doHookList(hooks *hook.Sender, logs *logger.Sender, prefix string) []hook.Entry {
	if hooks == nil {
		return nil
	}
	entries := hooks.List(prefix)
	if logs != nil {
		logs.WriteAsync(logger.ListHooksItem{Prefix: prefix})
	}
	return entries
}

func doLogState(logs *logger.Sender, f func(*logger.Sender) error) error {
	if logs == nil {
		return kvstore.WithStack(&kvstore.LogError{Msg: "no logger attached"})
	}
	if err := f(logs); err != nil {
		return kvstore.WithStack(&kvstore.LogError{Msg: err.Error()})
	}
	return nil
}

// Close stops the worker goroutine. It is safe to call more than
// once. It does not close the attached hook or logger senders; callers
// own those lifetimes independently.
func (s *Sender) Close() {
	s.once.Do(func() { close(s.closed) })
}

func (s *Sender) Get(key string) (Value, error) {
	reply := make(chan getResult, 1)
	s.get <- getReq{key: key, reply: reply}
	r := <-reply
	return r.value, r.err
}

func (s *Sender) Set(key, value string) error {
	reply := make(chan error, 1)
	s.set <- setReq{key: key, value: value, reply: reply}
	return <-reply
}

func (s *Sender) DeleteKey(key string) error {
	reply := make(chan error, 1)
	s.deleteKey <- deleteKeyReq{key: key, reply: reply}
	return <-reply
}

func (s *Sender) DeleteTable(key string) error {
	reply := make(chan error, 1)
	s.deleteTable <- deleteTableReq{key: key, reply: reply}
	return <-reply
}

func (s *Sender) ListKeys(prefix string, level ListLevel) ([]ListEntry, error) {
	reply := make(chan listResult, 1)
	s.listKeys <- listKeysReq{prefix: prefix, level: level, reply: reply}
	r := <-reply
	return r.entries, r.err
}

func (s *Sender) HookSet(prefix, link string) error {
	reply := make(chan error, 1)
	s.hookSet <- hookSetReq{prefix: prefix, link: link, reply: reply}
	return <-reply
}

func (s *Sender) HookRemove(prefix, link string) error {
	reply := make(chan error, 1)
	s.hookRemove <- hookRemoveReq{prefix: prefix, link: link, reply: reply}
	return <-reply
}

func (s *Sender) HookGet(prefix string) (hook.Entry, error) {
	reply := make(chan hookGetResult, 1)
	s.hookGet <- hookGetReq{prefix: prefix, reply: reply}
	r := <-reply
	return r.entry, r.err
}

func (s *Sender) HookList(prefix string) []hook.Entry {
	reply := make(chan []hook.Entry, 1)
	s.hookList <- hookListReq{prefix: prefix, reply: reply}
	return <-reply
}

func (s *Sender) SuspendLog() error {
	reply := make(chan error, 1)
	s.suspendLog <- logStateReq{reply: reply}
	return <-reply
}

func (s *Sender) ResumeLog() error {
	reply := make(chan error, 1)
	s.resumeLog <- logStateReq{reply: reply}
	return <-reply
}
