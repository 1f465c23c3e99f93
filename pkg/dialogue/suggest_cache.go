package dialogue

import (
	"abend-assist-be/pkg/abend"
	"abend-assist-be/pkg/nlu"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedSuggestion struct {
	idx *abend.Index // the snapshot the score was computed against
	s   nlu.Suggestion
	ok  bool
}

// suggestionCache memoizes fuzzy suggestions per utterance. Entries from an
// older snapshot are treated as misses. Without an LRU every call recomputes.
type suggestionCache struct {
	lru *lru.Cache[string, cachedSuggestion]
}

func newSuggestionCache(size int) *suggestionCache {
	if size == 0 {
		size = DefaultSuggestionCacheSize
	}
	if size < 0 {
		return &suggestionCache{}
	}
	c, err := lru.New[string, cachedSuggestion](size)
	if err != nil {
		return &suggestionCache{}
	}
	return &suggestionCache{lru: c}
}

func (c *suggestionCache) suggest(idx *abend.Index, text string) (nlu.Suggestion, bool) {
	if c.lru != nil {
		if hit, ok := c.lru.Get(text); ok && hit.idx == idx {
			return hit.s, hit.ok
		}
	}

	s, ok := nlu.Suggest(text, idx.Candidates(), nlu.SuggestionMinimum)
	if c.lru != nil {
		c.lru.Add(text, cachedSuggestion{idx: idx, s: s, ok: ok})
	}
	return s, ok
}

func (c *suggestionCache) purge() {
	if c.lru != nil {
		c.lru.Purge()
	}
}

func (c *suggestionCache) len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
