// Package selection collects the folders a wizard run will create, either by
// walking the suggestion catalog or through a free-form naming dialogue.
package selection

import "slices"

// Paths is an insertion-ordered set of slash-delimited folder paths relative
// to the run's base folder. Insertion order is creation order.
//
// Paths is owned by a single interactive flow and is not safe for
// concurrent use.
type Paths struct {
	order []string
	desc  map[string]string
}

// NewPaths returns a set holding paths in order, skipping duplicates.
func NewPaths(paths ...string) *Paths {
	p := &Paths{}
	for _, path := range paths {
		p.Add(path, "")
	}
	return p
}

// Add appends path unless it is already present and reports whether it did.
// A non-empty description is remembered even for an existing path.
func (p *Paths) Add(path, description string) bool {
	if p.desc == nil {
		p.desc = make(map[string]string)
	}
	if description != "" {
		p.desc[path] = description
	}
	if p.Has(path) {
		return false
	}
	p.order = append(p.order, path)
	return true
}

// Has reports whether path is in the set.
func (p *Paths) Has(path string) bool {
	return slices.Contains(p.order, path)
}

// List returns a copy of the paths in insertion order.
func (p *Paths) List() []string {
	return slices.Clone(p.order)
}

// Len returns the number of paths.
func (p *Paths) Len() int {
	return len(p.order)
}

// Description returns the description recorded for path, if any.
func (p *Paths) Description(path string) string {
	return p.desc[path]
}

// Descriptions returns a copy of every recorded description keyed by path.
func (p *Paths) Descriptions() map[string]string {
	out := make(map[string]string, len(p.desc))
	for k, v := range p.desc {
		out[k] = v
	}
	return out
}

// Reset empties the set.
func (p *Paths) Reset() {
	p.order = nil
	p.desc = nil
}
