package ui

import (
	"io"
	"net/http"
	"sync"
	"time"

	"fyne.io/fyne/v2"
)

const thumbnailFetchTimeout = 10 * time.Second

// thumbnailCache fetches and caches thumbnail images by URL. Fetches run off
// the UI thread; delivery goes back through fyne.Do.
type thumbnailCache struct {
	mu     sync.Mutex
	images map[string]fyne.Resource
	client *http.Client
}

func newThumbnailCache() *thumbnailCache {
	return &thumbnailCache{
		images: make(map[string]fyne.Resource),
		client: &http.Client{Timeout: thumbnailFetchTimeout},
	}
}

// get returns the cached resource for a URL, if any
func (tc *thumbnailCache) get(url string) (fyne.Resource, bool) {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	res, ok := tc.images[url]
	return res, ok
}

// fetch downloads the image and delivers it via the callback on success.
// Failures are silent; the row keeps its placeholder icon.
func (tc *thumbnailCache) fetch(url string, deliver func(fyne.Resource)) {
	if url == "" {
		return
	}
	if res, ok := tc.get(url); ok {
		deliver(res)
		return
	}

	go func() {
		resp, err := tc.client.Get(url)
		if err != nil {
			return
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return
		}

		res := fyne.NewStaticResource(url, data)
		tc.mu.Lock()
		tc.images[url] = res
		tc.mu.Unlock()

		fyne.Do(func() { deliver(res) })
	}()
}
