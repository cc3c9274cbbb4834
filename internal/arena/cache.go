package arena

import "errors"

// BlockSize is the size in bytes of every block handed out by a Cache.
const BlockSize = 1 << 20

// Stats counts the mapping activity of a Cache.
type Stats struct {
	Maps   uint64
	Unmaps uint64
	Reuses uint64
}

// Cache is a bounded LIFO free list of blocks.
type Cache struct {
	free     [][]byte
	capacity int
	mapper   Mapper
	stats    Stats
}

type Option func(*Cache)

// WithMapper replaces the operating system mapper.
func WithMapper(m Mapper) Option {
	return func(c *Cache) {
		c.mapper = m
	}
}

// NewCache creates a cache that keeps at most capacity released blocks.
func NewCache(capacity int, opts ...Option) *Cache {
	if capacity < 0 {
		capacity = 0
	}
	c := &Cache{
		free:     make([][]byte, 0, capacity),
		capacity: capacity,
		mapper:   AnonMapper{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Acquire returns the most recently released block, or maps a new one when
// the free list is empty. It panics with a *MapError if the mapping fails.
func (c *Cache) Acquire() []byte {
	if n := len(c.free); n > 0 {
		b := c.free[n-1]
		c.free[n-1] = nil
		c.free = c.free[:n-1]
		c.stats.Reuses++
		return b
	}

	b, err := c.mapper.Map(BlockSize)
	if err != nil {
		panic(&MapError{Op: "map", Size: BlockSize, Err: err})
	}
	c.stats.Maps++
	return b
}

// Release returns a block to the cache. A full cache unmaps the block
// instead.
func (c *Cache) Release(b []byte) {
	if len(b) != BlockSize {
		panic(ErrBlockSize)
	}
	if len(c.free) < c.capacity {
		c.free = append(c.free, b)
		return
	}

	if err := c.mapper.Unmap(b); err != nil {
		panic(&MapError{Op: "unmap", Size: BlockSize, Err: err})
	}
	c.stats.Unmaps++
}

// ResidentBytes is the memory held by cached blocks.
func (c *Cache) ResidentBytes() uint64 {
	return uint64(len(c.free)) * BlockSize
}

func (c *Cache) Len() int     { return len(c.free) }
func (c *Cache) Cap() int     { return c.capacity }
func (c *Cache) Stats() Stats { return c.stats }

// Close unmaps every cached block. Blocks still held by solvers are not
// tracked and must be released before Close.
func (c *Cache) Close() error {
	var errs []error
	for i, b := range c.free {
		if err := c.mapper.Unmap(b); err != nil {
			errs = append(errs, &MapError{Op: "unmap", Size: BlockSize, Err: err})
			continue
		}
		c.stats.Unmaps++
		c.free[i] = nil
	}
	c.free = c.free[:0]
	return errors.Join(errs...)
}
