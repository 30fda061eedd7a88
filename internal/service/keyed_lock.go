package service

import (
	"fmt"
	"sort"
	"sync"
)

// keyedMutex serializes work per key. Locks for several keys are taken in sorted
// order so overlapping batches cannot deadlock.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedEntry
}

type keyedEntry struct {
	mu   sync.Mutex
	refs int
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*keyedEntry)}
}

// Lock acquires every key and returns a function releasing them.
func (k *keyedMutex) Lock(keys ...string) (unlock func()) {
	ordered := uniqueSorted(keys)
	entries := make([]*keyedEntry, 0, len(ordered))
	for _, key := range ordered {
		k.mu.Lock()
		entry, ok := k.locks[key]
		if !ok {
			entry = &keyedEntry{}
			k.locks[key] = entry
		}
		entry.refs++
		k.mu.Unlock()

		entry.mu.Lock()
		entries = append(entries, entry)
	}

	return func() {
		for i := len(entries) - 1; i >= 0; i-- {
			entries[i].mu.Unlock()
			k.mu.Lock()
			entries[i].refs--
			if entries[i].refs == 0 {
				delete(k.locks, ordered[i])
			}
			k.mu.Unlock()
		}
	}
}

func (k *keyedMutex) size() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.locks)
}

func uniqueSorted(keys []string) []string {
	seen := make(map[string]struct{}, len(keys))
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func registrationKey(studentID, courseID int64) string {
	return fmt.Sprintf("%d:%d", studentID, courseID)
}
