// Package catalog holds the static tree of suggested plugin folders that
// guided setup walks.
package catalog

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	oerrors "github.com/wplizard/cli/internal/errors"
)

//go:embed folders.yaml
var defaultCatalog []byte

// NamePattern is the shape every folder name must have: an uppercase letter
// followed by letters, digits, or underscores.
var NamePattern = regexp.MustCompile(`^[A-Z]\w*$`)

// Node is one suggested folder.
type Node struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Recommended bool   `yaml:"recommended,omitempty"`
	Children    []Node `yaml:"children,omitempty"`
}

// HasChildren reports whether the node has nested suggestions.
func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Clone returns a deep copy of n.
func (n Node) Clone() Node {
	out := n
	out.Children = CloneNodes(n.Children)
	return out
}

// CloneNodes returns a deep copy of nodes. A nil slice stays nil.
func CloneNodes(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = n.Clone()
	}
	return out
}

// Catalog is an immutable suggestion tree. Accessors return copies.
type Catalog struct {
	roots []Node
}

// Default returns the catalog embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault is like Default but panics on a malformed embedded catalog.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// New builds a catalog from nodes after validating them. The nodes are copied.
func New(nodes []Node) (*Catalog, error) {
	if err := validate(nodes, ""); err != nil {
		return nil, err
	}
	return &Catalog{roots: CloneNodes(nodes)}, nil
}

// Parse decodes a YAML list of nodes into a catalog.
func Parse(data []byte) (*Catalog, error) {
	var nodes []Node
	if err := yaml.Unmarshal(data, &nodes); err != nil {
		return nil, fmt.Errorf("parsing catalog: %w", err)
	}
	if len(nodes) == 0 {
		return nil, oerrors.NewValidationError("catalog has no folders", "", "", "")
	}
	return New(nodes)
}

func validate(nodes []Node, parent string) error {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		p := Join(parent, n.Name)
		if !NamePattern.MatchString(n.Name) {
			return oerrors.NewValidationError(
				fmt.Sprintf("invalid folder name %q", n.Name), p, "name",
				"Folder names start with an uppercase letter and contain only letters, digits, and underscores")
		}
		if seen[n.Name] {
			return oerrors.NewValidationError(
				fmt.Sprintf("duplicate folder %q", n.Name), p, "name", "")
		}
		seen[n.Name] = true
		if err := validate(n.Children, p); err != nil {
			return err
		}
	}
	return nil
}

// Roots returns a copy of the top-level suggestions.
func (c *Catalog) Roots() []Node {
	return CloneNodes(c.roots)
}

// Find returns the node at a slash-delimited path.
func (c *Catalog) Find(path string) (Node, bool) {
	nodes := c.roots
	var found Node
	for _, part := range strings.Split(path, "/") {
		ok := false
		for _, n := range nodes {
			if n.Name == part {
				found, nodes, ok = n, n.Children, true
				break
			}
		}
		if !ok {
			return Node{}, false
		}
	}
	return found.Clone(), true
}

// Descriptions maps every catalog path to its description.
func (c *Catalog) Descriptions() map[string]string {
	out := make(map[string]string)
	var walk func(nodes []Node, parent string)
	walk = func(nodes []Node, parent string) {
		for _, n := range nodes {
			p := Join(parent, n.Name)
			out[p] = n.Description
			walk(n.Children, p)
		}
	}
	walk(c.roots, "")
	return out
}

// Join appends name to a slash-delimited parent path.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
