package models

import "sync"

type Entity[T any] interface {
	GetID() string
	Clone() T
}

// Collection is an insertion-ordered set of entities keyed by id. Items go in
// and come out as clones, so callers never share mutable state with it.
type Collection[T Entity[T]] struct {
	mu       sync.RWMutex
	items    []T
	index    map[string]int
	revision uint64
}

func NewCollection[T Entity[T]]() *Collection[T] {
	return &Collection[T]{
		items: make([]T, 0),
		index: make(map[string]int),
	}
}

// Put inserts the item, or replaces an existing one in place.
func (c *Collection[T]) Put(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	item = item.Clone()
	c.revision++
	if i, ok := c.index[item.GetID()]; ok {
		c.items[i] = item
		return true
	}
	c.index[item.GetID()] = len(c.items)
	c.items = append(c.items, item)
	return false
}

func (c *Collection[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i].Clone(), true
}

func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	i, ok := c.index[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:i:i], c.items[i+1:]...)
	c.reindex()
	c.revision++
	return true
}

func (c *Collection[T]) List() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = item.Clone()
	}
	return out
}

// Replace swaps the whole content; later duplicates of an id win.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make([]T, 0, len(items))
	c.index = make(map[string]int, len(items))
	for _, item := range items {
		item = item.Clone()
		if i, ok := c.index[item.GetID()]; ok {
			c.items[i] = item
			continue
		}
		c.index[item.GetID()] = len(c.items)
		c.items = append(c.items, item)
	}
	c.revision++
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Revision changes on every mutation.
func (c *Collection[T]) Revision() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.revision
}

func (c *Collection[T]) reindex() {
	c.index = make(map[string]int, len(c.items))
	for i, item := range c.items {
		c.index[item.GetID()] = i
	}
}
