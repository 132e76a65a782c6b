package book

import (
	"context"
	"os"
	"sync"
)

// byteCache holds lazily loaded raw PDF buffers keyed by volume index.
//
// Each volume gets its own lock so concurrent loads of different volumes
// never serialize against each other, while concurrent loads of the same
// volume collapse to a single disk read. The short outer mutex only guards
// the two maps, never disk I/O.
type byteCache struct {
	mu      sync.Mutex
	locks   map[int]*sync.Mutex
	buffers map[int][]byte
}

// lockFor returns the per-volume lock, creating it on first use. Locks
// survive cache clears so in-flight loads keep their exclusivity.
func (c *byteCache) lockFor(volNo int) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.locks == nil {
		c.locks = make(map[int]*sync.Mutex)
	}
	lk, ok := c.locks[volNo]
	if !ok {
		lk = &sync.Mutex{}
		c.locks[volNo] = lk
	}
	return lk
}

func (c *byteCache) get(volNo int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.buffers[volNo]
	return b, ok
}

func (c *byteCache) put(volNo int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buffers == nil {
		c.buffers = make(map[int][]byte)
	}
	c.buffers[volNo] = data
}

func (c *byteCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buffers = nil
}

// GetOrLoadVolumeBytes returns the raw bytes of the given volume, reading
// the file from disk on first request and serving the cached buffer after
// that. All concurrent callers for one volume receive the identical buffer
// and the file is read at most once; requests for different volumes load
// independently.
//
// An out-of-range volNo is clamped into the valid range rather than
// rejected (callers rely on the clamped fallback). A missing or unreadable
// file yields nil, not an error.
func (m *Metadata) GetOrLoadVolumeBytes(volNo int) []byte {
	if len(m.Volumes) == 0 {
		return nil
	}
	volNo = m.clampVolNo(volNo)

	lk := m.cache.lockFor(volNo)
	lk.Lock()
	defer lk.Unlock()

	if data, ok := m.cache.get(volNo); ok {
		return data
	}
	data, err := os.ReadFile(m.FullPathForVolNo(volNo))
	if err != nil {
		return nil
	}
	m.cache.put(volNo, data)
	return data
}

// GetCachedVolumeBytes returns the cached buffer for a volume, or nil when
// it has not been loaded. Never touches disk.
func (m *Metadata) GetCachedVolumeBytes(volNo int) []byte {
	if len(m.Volumes) == 0 {
		return nil
	}
	data, _ := m.cache.get(m.clampVolNo(volNo))
	return data
}

// ClearBytesCache drops every cached buffer. Safe to call while loads are
// in flight; an in-flight load simply repopulates its own entry.
func (m *Metadata) ClearBytesCache() {
	m.cache.clear()
}

// PreloadAllVolumeBytes warms the cache by loading every volume
// concurrently. Volumes already loaded cost nothing; load failures are
// ignored here and surface as nil on the eventual read. Returns once every
// volume has been attempted or the context is cancelled.
func (m *Metadata) PreloadAllVolumeBytes(ctx context.Context) {
	var wg sync.WaitGroup
	for volNo := range m.Volumes {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(volNo int) {
			defer wg.Done()
			m.GetOrLoadVolumeBytes(volNo)
		}(volNo)
	}
	wg.Wait()
}
