package hook

import (
	"context"
	"log"
	"sort"
	"strings"

	kvstore "github.com/onlyati/kvstore"
)

// manager owns the prefix -> links registry. It is not safe for
// concurrent use directly; the worker goroutine is its only caller.
type manager struct {
	prefixes []string
	links    map[string][]string
	poster   Poster
}

func newManager(poster Poster) *manager {
	return &manager{links: map[string][]string{}, poster: poster}
}

func (m *manager) insertPrefix(prefix string) {
	i := sort.SearchStrings(m.prefixes, prefix)
	if i < len(m.prefixes) && m.prefixes[i] == prefix {
		return
	}
	m.prefixes = append(m.prefixes, "")
	copy(m.prefixes[i+1:], m.prefixes[i:])
	m.prefixes[i] = prefix
}

// add registers link under prefix. It errors if the pair is already
// registered.
func (m *manager) add(prefix, link string) error {
	for _, l := range m.links[prefix] {
		if l == link {
			return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "already defined"})
		}
	}
	m.links[prefix] = append(m.links[prefix], link)
	m.insertPrefix(prefix)
	return nil
}

// remove unregisters link from prefix. It errors if the pair is not
// registered.
func (m *manager) remove(prefix, link string) error {
	links, found := m.links[prefix]
	if !found {
		return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "not found"})
	}
	for i, l := range links {
		if l == link {
			m.links[prefix] = append(links[:i], links[i+1:]...)
			if len(m.links[prefix]) == 0 {
				delete(m.links, prefix)
				m.deletePrefix(prefix)
			}
			return nil
		}
	}
	return kvstore.WithStack(&kvstore.InvalidKeyError{Msg: "not found"})
}

func (m *manager) deletePrefix(prefix string) {
	i := sort.SearchStrings(m.prefixes, prefix)
	if i < len(m.prefixes) && m.prefixes[i] == prefix {
		m.prefixes = append(m.prefixes[:i], m.prefixes[i+1:]...)
	}
}

// get performs an exact-match lookup.
func (m *manager) get(prefix string) (Entry, bool) {
	links, found := m.links[prefix]
	if !found {
		return Entry{}, false
	}
	out := make([]string, len(links))
	copy(out, links)
	return Entry{Prefix: prefix, Links: out}, true
}

// list returns every registered prefix that starts with query, in
// sorted prefix order.
func (m *manager) list(query string) []Entry {
	var out []Entry
	for _, p := range m.prefixes {
		if strings.HasPrefix(p, query) {
			links := make([]string, len(m.links[p]))
			copy(links, m.links[p])
			out = append(out, Entry{Prefix: p, Links: links})
		}
	}
	return out
}

// executeHooks POSTs key/value to every link registered under a
// prefix that key starts with, sequentially and in prefix order,
// returning the number of requests made. HTTP failures are logged and
// otherwise ignored.
func (m *manager) executeHooks(ctx context.Context, key, value string) int {
	count := 0
	for _, p := range m.prefixes {
		if !strings.HasPrefix(key, p) {
			continue
		}
		for _, link := range m.links[p] {
			count++
			if err := m.poster.Post(ctx, link, key, value); err != nil {
				log.Printf("hook: POST %s failed: %v", link, err)
			}
		}
	}
	return count
}
