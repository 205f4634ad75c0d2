package engine

import (
	"container/list"
	"hash/fnv"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/fireflyframework/fireflyframework-rule-engine-sub001/ruledoc"
)

// parseCache is the engine's one process-wide mutable state (§5): a
// fingerprint-keyed, capacity-bounded LRU of parsed documents, guarded by
// a mutex for last-writer-wins eviction, grounded on barn's db/store.go
// RWMutex-guarded map and single-writer pattern for its object table.
// singleflight collapses duplicate concurrent parses of the same
// fingerprint so two simultaneous evaluations of identical YAML text
// compile it once (§5).
type parseCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*list.Element
	order    *list.List // front = most recently used
	group    singleflight.Group
}

type cacheEntry struct {
	fingerprint uint64
	doc         *ruledoc.Document
}

func newParseCache(capacity int) *parseCache {
	return &parseCache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element),
		order:    list.New(),
	}
}

// fingerprint computes the FNV-1a hash of the YAML text (§5).
func fingerprint(yamlText string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(yamlText))
	return h.Sum64()
}

// getOrParse returns the cached document for yamlText's fingerprint,
// parsing (and caching) it on a miss. Concurrent callers for the same
// fingerprint share a single parse via singleflight.
func (c *parseCache) getOrParse(yamlText string) (*ruledoc.Document, error) {
	fp := fingerprint(yamlText)

	if doc, ok := c.lookup(fp); ok {
		return doc, nil
	}

	result, err, _ := c.group.Do(strconv.FormatUint(fp, 16), func() (interface{}, error) {
		if doc, ok := c.lookup(fp); ok {
			return doc, nil
		}
		doc, err := ruledoc.Parse(yamlText)
		if err != nil {
			return nil, err
		}
		c.store(fp, doc)
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*ruledoc.Document), nil
}

func (c *parseCache) lookup(fp uint64) (*ruledoc.Document, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[fp]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	return el.Value.(*cacheEntry).doc, true
}

func (c *parseCache) store(fp uint64, doc *ruledoc.Document) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[fp]; ok {
		el.Value.(*cacheEntry).doc = doc
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&cacheEntry{fingerprint: fp, doc: doc})
	c.entries[fp] = el

	for c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).fingerprint)
	}
}
