package overlay

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"vibe-capture/internal/domain"
)

// ImageCache is a process-wide read-through cache for overlay assets
// (badges, logo). Concurrent loads of the same path are deduplicated:
// the first caller decodes, everyone else waits on the same entry.
// Decoded images are kept for the life of the process so repeated
// captures never re-read or re-decode an asset.
type ImageCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	ready chan struct{}
	img   image.Image
	err   error
}

func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]*cacheEntry)}
}

// Load returns the decoded image for path, decoding it at most once per
// process. A failed load is cached too; retrying a known-bad asset on
// every frame of a recording would be wasted work.
func (c *ImageCache) Load(path string) (image.Image, error) {
	c.mu.Lock()
	e, ok := c.entries[path]
	if !ok {
		e = &cacheEntry{ready: make(chan struct{})}
		c.entries[path] = e
		c.mu.Unlock()

		e.img, e.err = decodeFile(path)
		close(e.ready)
		return e.img, e.err
	}
	c.mu.Unlock()

	<-e.ready
	return e.img, e.err
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageLoadFailed, path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrImageLoadFailed, path, err)
	}
	return img, nil
}
