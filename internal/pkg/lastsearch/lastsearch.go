// Package lastsearch keeps the short list of recent flight searches in the
// session store so the search form can offer them back.
package lastsearch

import (
	"encoding/json"

	"github.com/skysync/skysync-tui/internal/app/dto"
	"github.com/skysync/skysync-tui/internal/pkg/session"
)

// Max is how many recent searches survive; older ones are evicted.
const Max = 3

type Cache struct {
	store session.Store
}

func New(store session.Store) *Cache {
	return &Cache{store: store}
}

// List returns the recent searches, most recent first. A missing or
// corrupt entry is an empty list.
func (c *Cache) List() []dto.LastSearch {
	raw, ok := c.store.Get(session.KeyLastSearches)
	if !ok {
		return nil
	}

	var searches []dto.LastSearch
	if err := json.Unmarshal(raw, &searches); err != nil {
		return nil
	}

	if len(searches) > Max {
		searches = searches[:Max]
	}

	return searches
}

// Record prepends the search, dropping any earlier entry with the same
// composite key and trimming to Max. Returns the updated list.
func (c *Cache) Record(entry dto.LastSearch) []dto.LastSearch {
	key := entry.Key()

	next := make([]dto.LastSearch, 0, Max)
	next = append(next, entry)

	for _, previous := range c.List() {
		if previous.Key() == key {
			continue
		}

		next = append(next, previous)
		if len(next) == Max {
			break
		}
	}

	if data, err := json.Marshal(next); err == nil {
		// Persistence failures degrade to a session-only list.
		_ = c.store.Set(session.KeyLastSearches, data)
	}

	return next
}
