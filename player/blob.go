package player

import (
	"sync"

	"github.com/google/uuid"
)

const blobScheme = "blob:movie-sync/"

// File is a user-selected media file. It never leaves the client.
type File struct {
	Name string
	Path string
}

// BlobRegistry hands out session-local reference URLs for selected files.
type BlobRegistry struct {
	mu    sync.Mutex
	files map[string]File
}

func NewBlobRegistry() *BlobRegistry {
	return &BlobRegistry{files: make(map[string]File)}
}

func (r *BlobRegistry) Create(f File) string {
	url := blobScheme + uuid.NewString()
	r.mu.Lock()
	r.files[url] = f
	r.mu.Unlock()
	return url
}

func (r *BlobRegistry) Resolve(url string) (File, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[url]
	return f, ok
}

func (r *BlobRegistry) Revoke(url string) {
	r.mu.Lock()
	delete(r.files, url)
	r.mu.Unlock()
}

func (r *BlobRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.files)
}
