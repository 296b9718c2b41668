package sessions

import (
	"container/list"
	"sync"
)

// renderKey identifies one rendering of a markdown source.
type renderKey struct {
	content string
	width   int
	theme   string
}

type renderEntry struct {
	key renderKey
	out string
}

// renderCache is a small LRU of rendered markdown.
type renderCache struct {
	mu       sync.Mutex
	capacity int
	order    *list.List // front is most recently used
	items    map[renderKey]*list.Element
	hits     int64
	misses   int64
}

func newRenderCache(capacity int) *renderCache {
	return &renderCache{
		capacity: max(1, capacity),
		order:    list.New(),
		items:    make(map[renderKey]*list.Element),
	}
}

func (c *renderCache) get(key renderKey) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		return "", false
	}
	c.hits++
	c.order.MoveToFront(el)
	return el.Value.(*renderEntry).out, true
}

func (c *renderCache) put(key renderKey, out string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		el.Value.(*renderEntry).out = out
		c.order.MoveToFront(el)
		return
	}
	c.items[key] = c.order.PushFront(&renderEntry{key: key, out: out})
	if c.order.Len() > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.items, oldest.Value.(*renderEntry).key)
	}
}

func (c *renderCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *renderCache) stats() (hits, misses int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
