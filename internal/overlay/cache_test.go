package overlay

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"vibe-capture/internal/domain"
)

func writeTestPNG(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "badge.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return path
}

func TestLoadDecodesOnce(t *testing.T) {
	path := writeTestPNG(t)
	c := NewImageCache()

	first, err := c.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Removing the file proves the second load comes from the cache.
	os.Remove(path)
	second, err := c.Load(path)
	if err != nil {
		t.Fatalf("cached Load: %v", err)
	}
	if first != second {
		t.Fatal("expected the same decoded image instance")
	}
}

func TestLoadCachesFailure(t *testing.T) {
	c := NewImageCache()
	missing := filepath.Join(t.TempDir(), "nope.png")

	if _, err := c.Load(missing); !errors.Is(err, domain.ErrImageLoadFailed) {
		t.Fatalf("expected ErrImageLoadFailed, got %v", err)
	}

	// Creating the file afterwards must not change the cached verdict.
	if err := os.WriteFile(missing, []byte("not a png"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.Load(missing); !errors.Is(err, domain.ErrImageLoadFailed) {
		t.Fatalf("expected cached failure, got %v", err)
	}
}

func TestLoadConcurrent(t *testing.T) {
	path := writeTestPNG(t)
	c := NewImageCache()

	var wg sync.WaitGroup
	results := make([]image.Image, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			img, err := c.Load(path)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = img
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("concurrent loads returned different instances")
		}
	}
}
