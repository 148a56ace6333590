package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTree(t *testing.T) {
	root := BuildTree("includes", []string{
		"Admin/Databases/Migrations",
		"Admin/Views",
		"Public",
	}, map[string]string{"Admin": "Back office"})

	require.Len(t, root.Children, 2)
	admin := root.Children[0]
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, "Back office", admin.Description)
	require.Len(t, admin.Children, 2)
	assert.Equal(t, "Databases", admin.Children[0].Name)
	assert.Equal(t, "Views", admin.Children[1].Name)
	assert.Equal(t, "Public", root.Children[1].Name)
}

func TestRenderFolderTree(t *testing.T) {
	out := RenderFolderTree("includes", []string{"Admin/Views", "Public"}, nil)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "includes/", lines[0])
	assert.Equal(t, "├── Admin/", lines[1])
	assert.Equal(t, "│   └── Views/", lines[2])
	assert.Equal(t, "└── Public/", lines[3])
}

func TestRenderFolderTree_Descriptions(t *testing.T) {
	out := RenderFolderTree("includes", []string{"Core"}, map[string]string{"Core": "Main logic"})
	assert.Contains(t, out, "└── Core/")
	assert.Contains(t, out, "Main logic")
}

func TestRenderFolderTree_Empty(t *testing.T) {
	assert.Empty(t, RenderFolderTree("includes", nil, nil))
}
