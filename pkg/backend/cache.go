package backend

import (
	"github.com/gridcrew/mapathon/pkg/proto"
	lru "github.com/hashicorp/golang-lru/v2"
)

// cache holds catalog regions by id. Assignment rows are never cached so
// progress is always derived from the store.
type cache struct {
	b       *Backend
	regions *lru.Cache[int64, proto.Region]
}

func newCache(b *Backend, size int) *cache {
	if size <= 0 {
		size = 1
	}
	c := &cache{b: b}
	regions, _ := lru.New[int64, proto.Region](size)
	c.regions = regions
	return c
}

func (c *cache) Get(id int64) (proto.Region, bool) {
	return c.regions.Get(id)
}

func (c *cache) Set(r proto.Region) {
	c.regions.Add(r.ID, r)
}

func (c *cache) Delete(id int64) {
	c.regions.Remove(id)
}

func (c *cache) Purge() {
	c.regions.Purge()
}

func (c *cache) Len() int {
	return c.regions.Len()
}
