package render

import (
	"container/list"
	"context"
	"encoding/binary"
	"hash/fnv"
	"math"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gg"
	"golang.org/x/sync/errgroup"

	"github.com/modular-tools/typeface"
)

// DefaultCacheCapacity holds one thumbnail per alphabet character with room
// for a few edits.
const DefaultCacheCapacity = 64

// ThumbnailCache is an LRU cache of thumbnails keyed by glyph content and
// surface settings, so an unchanged glyph is never redrawn. It is safe for
// concurrent use.
//
// Cached canvases are shared: callers must not draw on them.
type ThumbnailCache struct {
	mu       sync.Mutex
	capacity int
	lru      *list.List // front is most recent
	entries  map[uint64]*list.Element

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key uint64
	dc  *gg.Context
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Len       int
	Hits      uint64
	Misses    uint64
	Evictions uint64
}

// NewThumbnailCache returns a cache holding at most capacity thumbnails. If
// capacity <= 0, DefaultCacheCapacity is used.
func NewThumbnailCache(capacity int) *ThumbnailCache {
	if capacity <= 0 {
		capacity = DefaultCacheCapacity
	}
	return &ThumbnailCache{
		capacity: capacity,
		lru:      list.New(),
		entries:  make(map[uint64]*list.Element),
	}
}

// Thumbnail returns r's thumbnail, drawing it on a miss.
func (c *ThumbnailCache) Thumbnail(tf *typeface.Typeface, r rune, opts ...Option) (*gg.Context, error) {
	g := tf.Glyph(r)
	if g == nil {
		return Thumbnail(tf, r, opts...)
	}
	cfg := newConfig(config{width: 80, height: 80, background: gg.Transparent}, opts)
	key := fingerprint(g, cfg)

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		dc := el.Value.(*cacheEntry).dc
		c.mu.Unlock()
		c.hits.Add(1)
		return dc, nil
	}
	c.mu.Unlock()
	c.misses.Add(1)

	dc, err := Thumbnail(tf, r, opts...)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.lru.MoveToFront(el)
		return el.Value.(*cacheEntry).dc, nil
	}
	for c.lru.Len() >= c.capacity {
		oldest := c.lru.Back()
		c.lru.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.evictions.Add(1)
	}
	c.entries[key] = c.lru.PushFront(&cacheEntry{key: key, dc: dc})
	return dc, nil
}

// Warm draws the thumbnail of every alphabet character, at most limit at a
// time, and returns them in alphabet order. tf must not change until Warm
// returns.
func (c *ThumbnailCache) Warm(ctx context.Context, tf *typeface.Typeface, limit int, opts ...Option) ([]*gg.Context, error) {
	chars := []rune(typeface.Alphabet)
	out := make([]*gg.Context, len(chars))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, r := range chars {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			dc, err := c.Thumbnail(tf, r, opts...)
			if err != nil {
				return err
			}
			out[i] = dc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Clear drops every cached thumbnail.
func (c *ThumbnailCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Init()
	clear(c.entries)
}

// Stats returns the current counters.
func (c *ThumbnailCache) Stats() CacheStats {
	c.mu.Lock()
	n := c.lru.Len()
	c.mu.Unlock()
	return CacheStats{
		Len:       n,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// fingerprint hashes everything a thumbnail depends on with FNV-1a. The
// character itself is left out, so identical glyphs share one entry.
func fingerprint(g *typeface.Glyph, cfg config) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	putInt := func(v int) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = h.Write(buf[:]) // fnv.Write never returns an error
	}
	putFloat := func(v float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		_, _ = h.Write(buf[:])
	}
	putInt(cfg.width)
	putInt(cfg.height)
	putFloat(cfg.scale)
	putFloat(cfg.background.R)
	putFloat(cfg.background.G)
	putFloat(cfg.background.B)
	putFloat(cfg.background.A)
	putInt(g.Cols())
	putInt(g.Rows())
	for _, cell := range g.Cells() {
		putInt(int(cell.Shape))
		putInt(cell.Rotation)
		_, _ = h.Write([]byte(cell.Color))
	}
	return h.Sum64()
}
