package orchestrator

import (
	"sync"

	"github.com/ShayCichocki/appforge/pkg/models"
)

// FileRegistry is the in-memory, path-keyed index of files generated during
// one request. Writes upsert by path (last write wins) and insertion order
// is preserved for listings. Each ProcessRequest call owns exactly one
// registry; it is discarded when the call returns.
type FileRegistry struct {
	mu    sync.RWMutex
	files map[string]models.GeneratedFile
	order []string
}

// NewFileRegistry creates an empty file registry.
func NewFileRegistry() *FileRegistry {
	return &FileRegistry{
		files: make(map[string]models.GeneratedFile),
	}
}

// Upsert stores a file under its path, replacing any earlier entry wholesale.
// Returns true when the path already existed in the registry.
func (r *FileRegistry) Upsert(f models.GeneratedFile) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, existed := r.files[f.Path]
	if !existed {
		r.order = append(r.order, f.Path)
	}
	r.files[f.Path] = f
	return existed
}

// Get returns the file stored under path.
func (r *FileRegistry) Get(path string) (models.GeneratedFile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[path]
	return f, ok
}

// Has reports whether a file is stored under path.
func (r *FileRegistry) Has(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.files[path]
	return ok
}

// Len returns the number of stored files.
func (r *FileRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}

// All returns all stored files in insertion order.
func (r *FileRegistry) All() []models.GeneratedFile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GeneratedFile, 0, len(r.order))
	for _, path := range r.order {
		out = append(out, r.files[path])
	}
	return out
}
