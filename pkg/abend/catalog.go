package abend

import (
	"sync/atomic"
	"time"
)

// Catalog holds the active Index. Reload swaps in a freshly built index in a
// single atomic store, so a reader sees either the old set or the new one.
type Catalog struct {
	current  atomic.Pointer[Index]
	loadedAt atomic.Int64
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	c := &Catalog{}
	empty, _ := NewIndex(nil)
	c.current.Store(empty)
	return c
}

// Reload replaces the active record set. On error the previous set stays active.
func (c *Catalog) Reload(records []Record) error {
	idx, err := NewIndex(records)
	if err != nil {
		return err
	}
	c.current.Store(idx)
	c.loadedAt.Store(time.Now().UnixNano())
	return nil
}

// Snapshot returns the active index. Callers should take one snapshot per
// request and use it throughout.
func (c *Catalog) Snapshot() *Index {
	return c.current.Load()
}

// LoadedAt reports when the last successful reload happened (zero if never).
func (c *Catalog) LoadedAt() time.Time {
	n := c.loadedAt.Load()
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}
