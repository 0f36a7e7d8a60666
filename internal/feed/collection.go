package feed

import "sync"

// Entity is anything with a stable numeric identity.
type Entity interface {
	EntityID() int64
}

// Collection is an ordered, paginated view over a server-held set. It is
// mutated only through the operations below; readers get copies.
type Collection[T Entity] struct {
	mu       sync.Mutex
	items    []T
	page     int
	pageSize int
	total    int
}

func NewCollection[T Entity]() *Collection[T] {
	return &Collection[T]{page: 1}
}

// Replace swaps in the contents of one freshly loaded page and the
// server-reported total. Loading never appends.
func (c *Collection[T]) Replace(items []T, page, pageSize, total int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T(nil), items...)
	c.page = page
	c.pageSize = pageSize
	c.total = total
}

// Prepend inserts item at position 0 and bumps the total by one, keeping
// later page loads consistent with the server's count.
func (c *Collection[T]) Prepend(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = append([]T{item}, c.items...)
	c.total++
}

// Remove deletes the entity with the given id and decrements the total.
// Removing an id that is not present is a no-op.
func (c *Collection[T]) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.EntityID() == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			if c.total > 0 {
				c.total--
			}
			return true
		}
	}
	return false
}

// Mutate runs fn against the stored entity with the given id, under the
// collection lock. Returns false when the id is not loaded.
func (c *Collection[T]) Mutate(id int64, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].EntityID() == id {
			fn(&c.items[i])
			return true
		}
	}
	return false
}

// Get returns a copy of the entity with the given id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].EntityID() == id {
			return c.items[i], true
		}
	}
	var zero T
	return zero, false
}

// Items returns a copy of the current contents in display order.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}

func (c *Collection[T]) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Collection[T]) PageSize() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pageSize
}
