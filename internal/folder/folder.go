// Package folder models the plugin's folder hierarchy in memory and
// materializes it through the filesystem service in a separate pass.
package folder

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/wplizard/cli/internal/fsys"
)

// DefaultConcurrency bounds how many sibling folders are created at once.
const DefaultConcurrency = 4

// Node is a folder. A node owns the children it holds; the parent link is
// only a back-reference.
type Node struct {
	name   string
	path   string
	parent *Node

	mu       sync.Mutex
	children []*Node

	// created is set when materialization made the directory, as opposed
	// to finding it already there. Only created nodes are rolled back.
	created bool
}

// NewRoot returns a root node for the directory at path.
func NewRoot(path string) *Node {
	clean := filepath.Clean(path)
	return &Node{name: filepath.Base(clean), path: clean}
}

// Name returns the folder name.
func (n *Node) Name() string { return n.name }

// Path returns the folder path.
func (n *Node) Path() string { return n.path }

// Parent returns the parent node or nil for a root or detached node.
func (n *Node) Parent() *Node { return n.parent }

// Created reports whether materialization created this directory.
func (n *Node) Created() bool { return n.created }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.children)
}

// IsLeaf reports whether the node has no children.
func (n *Node) IsLeaf() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.children) == 0
}

func (n *Node) child(name string) *Node {
	for _, c := range n.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (n *Node) addChild(name string) *Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	if c := n.child(name); c != nil {
		return c
	}
	c := &Node{name: name, path: filepath.Join(n.path, name), parent: n}
	n.children = append(n.children, c)
	return c
}

// Insert adds the slash-delimited rel path below n without touching the
// filesystem and returns the deepest node. Existing segments are reused.
func (n *Node) Insert(rel string) *Node {
	node := n
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" || part == "." {
			continue
		}
		node = node.addChild(part)
	}
	return node
}

// Find returns the node at the slash-delimited rel path below n.
func (n *Node) Find(rel string) (*Node, bool) {
	node := n
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if part == "" {
			continue
		}
		node.mu.Lock()
		next := node.child(part)
		node.mu.Unlock()
		if next == nil {
			return nil, false
		}
		node = next
	}
	return node, true
}

// Rel returns the slash-delimited path of n relative to root.
func (n *Node) Rel(root *Node) string {
	rel, err := filepath.Rel(root.path, n.path)
	if err != nil {
		return n.path
	}
	return filepath.ToSlash(rel)
}

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children() {
		c.Walk(fn)
	}
}

// CreatedNodes returns every node materialization created, parents first.
func (n *Node) CreatedNodes() []*Node {
	var out []*Node
	n.Walk(func(c *Node) bool {
		if c.created {
			out = append(out, c)
		}
		return true
	})
	return out
}

// Materialize creates n and everything below it. Existing directories on the
// way are reused and not owned, except that an existing leaf is reported as
// already existing. Siblings are created concurrently, at most limit at a
// time per level; a failure stops the pass and leaves created flags behind
// for Rollback.
func (n *Node) Materialize(ctx context.Context, svc *fsys.Service, limit int) error {
	if limit < 1 {
		limit = DefaultConcurrency
	}

	if n.parent == nil {
		existed := svc.Exists(n.path)
		if err := svc.CreateDirectory(n.path, true); err != nil {
			return err
		}
		n.created = !existed
		return n.materializeChildren(ctx, svc, limit)
	}
	return n.materialize(ctx, svc, limit)
}

func (n *Node) materialize(ctx context.Context, svc *fsys.Service, limit int) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if svc.Exists(n.path) {
		info, err := svc.Stat(n.path)
		if err != nil {
			return err
		}
		if !info.IsDirectory {
			return &fsys.Error{Op: "mkdir", Path: n.path, Kind: fsys.KindNotDirectory}
		}
		if n.IsLeaf() {
			return &fsys.Error{Op: "mkdir", Path: n.path, Kind: fsys.KindAlreadyExists}
		}
	} else {
		if err := svc.CreateDirectory(n.path, false); err != nil {
			return err
		}
		n.created = true
	}

	return n.materializeChildren(ctx, svc, limit)
}

func (n *Node) materializeChildren(ctx context.Context, svc *fsys.Service, limit int) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, c := range n.Children() {
		g.Go(func() error {
			return c.materialize(gctx, svc, limit)
		})
	}
	return g.Wait()
}

// Rollback removes every directory materialization created below and
// including n, concurrently, and detaches the removed nodes. It waits for
// all removals and joins their errors.
func (n *Node) Rollback(ctx context.Context, svc *fsys.Service, limit int) error {
	if limit < 1 {
		limit = DefaultConcurrency
	}

	var owned []*Node
	n.Walk(func(c *Node) bool {
		if c.created {
			owned = append(owned, c)
			return false
		}
		return true
	})

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(limit)
	for _, c := range owned {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("rollback %s: %w", c.path, err))
				mu.Unlock()
				return nil
			}
			if err := c.Remove(svc); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return errors.Join(errs...)
}

// Remove deletes the directory and its contents, then detaches n from its
// parent. A directory that is already gone only detaches.
func (n *Node) Remove(svc *fsys.Service) error {
	if svc.Exists(n.path) {
		if err := svc.RemoveDirectory(n.path, true); err != nil {
			return err
		}
	}
	n.Walk(func(c *Node) bool {
		c.created = false
		return true
	})
	n.detach()
	return nil
}

func (n *Node) detach() {
	p := n.parent
	if p == nil {
		return
	}
	p.mu.Lock()
	p.children = slices.DeleteFunc(p.children, func(c *Node) bool { return c == n })
	p.mu.Unlock()
	n.parent = nil
}

// Rename renames the directory on disk and updates n and its descendants.
// An existing target is a collision.
func (n *Node) Rename(svc *fsys.Service, name string) error {
	if name == "" || strings.ContainsRune(name, '/') || strings.ContainsRune(name, filepath.Separator) {
		return &fsys.Error{Op: "rename", Path: name, Kind: fsys.KindIO, Err: errors.New("invalid folder name")}
	}
	if n.parent != nil {
		n.parent.mu.Lock()
		taken := n.parent.child(name) != nil
		n.parent.mu.Unlock()
		if taken {
			return &fsys.Error{Op: "rename", Path: filepath.Join(filepath.Dir(n.path), name), Kind: fsys.KindAlreadyExists}
		}
	}

	target := filepath.Join(filepath.Dir(n.path), name)
	if err := svc.Rename(n.path, target); err != nil {
		return err
	}
	n.name = name
	n.repath(target)
	return nil
}

func (n *Node) repath(path string) {
	n.path = path
	for _, c := range n.Children() {
		c.repath(filepath.Join(path, c.name))
	}
}

// Stat returns the directory's metadata.
func (n *Node) Stat(svc *fsys.Service) (fsys.Info, error) {
	return svc.Stat(n.path)
}
