package output

import (
	"path/filepath"
	"strings"
)

const (
	treeEdge  = "├── "
	treeLast  = "└── "
	treeVert  = "│   "
	treeSpace = "    "

	// descriptionColumn is where folder descriptions start.
	descriptionColumn = 36
)

// TreeNode is one folder in a rendered tree.
type TreeNode struct {
	Name        string
	Description string
	Children    []*TreeNode
}

// BuildTree folds slash-delimited folder paths into a tree rooted at rootName.
// Children keep the order their paths first appear in.
func BuildTree(rootName string, paths []string, descriptions map[string]string) *TreeNode {
	root := &TreeNode{Name: rootName}

	for _, p := range paths {
		parts := strings.Split(filepath.ToSlash(p), "/")
		node := root
		for i, part := range parts {
			if part == "" {
				continue
			}
			var child *TreeNode
			for _, c := range node.Children {
				if c.Name == part {
					child = c
					break
				}
			}
			if child == nil {
				child = &TreeNode{Name: part}
				node.Children = append(node.Children, child)
			}
			if desc, ok := descriptions[strings.Join(parts[:i+1], "/")]; ok {
				child.Description = desc
			}
			node = child
		}
	}

	return root
}

// RenderFolderTree renders paths as a tree with descriptions aligned to a
// fixed column. An empty path list renders nothing.
func RenderFolderTree(rootName string, paths []string, descriptions map[string]string) string {
	if len(paths) == 0 {
		return ""
	}

	var sb strings.Builder
	root := BuildTree(rootName, paths, descriptions)
	sb.WriteString(StyleSummary.Render(root.Name + "/"))
	sb.WriteString("\n")
	renderChildren(&sb, root, "")
	return sb.String()
}

func renderChildren(sb *strings.Builder, node *TreeNode, prefix string) {
	for i, child := range node.Children {
		last := i == len(node.Children)-1

		connector, next := treeEdge, treeVert
		if last {
			connector, next = treeLast, treeSpace
		}

		line := prefix + connector + child.Name + "/"
		if child.Description != "" {
			padding := descriptionColumn - len([]rune(line))
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding) + StyleDim.Render(child.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
		renderChildren(sb, child, prefix+next)
	}
}
