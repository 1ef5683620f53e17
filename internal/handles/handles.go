package handles

import (
	"fmt"

	"psmigrate/internal/model"
)

// Registry remembers the handles claimed during one batch run.
type Registry struct {
	seen map[string]bool
}

func NewRegistry() *Registry {
	return &Registry{seen: make(map[string]bool)}
}

// Claim registers handle and returns it, or the first free "<handle>-N" when taken.
func (r *Registry) Claim(handle string) string {
	candidate := handle
	for n := 1; r.seen[candidate]; n++ {
		candidate = fmt.Sprintf("%s-%d", handle, n)
	}
	r.seen[candidate] = true
	return candidate
}

// Dedupe rewrites product handles in batch order so that each is unique.
// It returns how many handles were changed.
func (r *Registry) Dedupe(products []*model.ProductSet) int {
	changed := 0
	for _, p := range products {
		h := r.Claim(p.Handle)
		if h != p.Handle {
			changed++
			p.Handle = h
		}
	}
	return changed
}
