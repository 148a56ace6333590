package output

import (
	"fmt"
	"io/fs"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableStyle defines the style for table output.
type TableStyle struct {
	// Border is the border style.
	Border lipgloss.Border

	// BorderColor is the color for borders.
	BorderColor lipgloss.Color

	// HeaderStyle is the style for header cells.
	HeaderStyle lipgloss.Style

	// CellStyle is the style for regular cells.
	CellStyle lipgloss.Style
}

// DefaultTableStyle returns the default table style.
func DefaultTableStyle() TableStyle {
	return TableStyle{
		Border:      lipgloss.NormalBorder(),
		BorderColor: ColorDimGray,
		HeaderStyle: lipgloss.NewStyle().Bold(true).Foreground(ColorBlue),
		CellStyle:   lipgloss.NewStyle(),
	}
}

// Table represents a styled table.
type Table struct {
	headers []string
	rows    [][]string
	style   TableStyle
}

// NewTable creates a new table with the given headers.
func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    make([][]string, 0),
		style:   DefaultTableStyle(),
	}
}

// Row adds a row to the table.
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// String renders the table as a string.
func (t *Table) String() string {
	tbl := table.New().
		Border(t.style.Border).
		BorderStyle(lipgloss.NewStyle().Foreground(t.style.BorderColor)).
		Headers(t.headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return t.style.HeaderStyle
			}
			return t.style.CellStyle
		})

	for _, row := range t.rows {
		tbl.Row(row...)
	}

	return tbl.String()
}

// FolderStatus is one row of the created-folders report.
type FolderStatus struct {
	Name        string
	CreatedAt   time.Time
	Permissions fs.FileMode
	SizeBytes   int64
}

// RenderFolderTable renders the created-folders report: name, creation
// time, octal permissions, and size in KB.
func RenderFolderTable(folders []FolderStatus) string {
	t := NewTable("NAME", "CREATED AT", "PERMISSIONS", "SIZE")

	for _, f := range folders {
		created := "-"
		if !f.CreatedAt.IsZero() {
			created = f.CreatedAt.Format(time.DateTime)
		}
		t.Row(f.Name, created, FormatPermissions(f.Permissions), FormatSize(f.SizeBytes))
	}

	return t.String()
}

// FormatPermissions returns the three low octal digits of a mode, for example "755".
func FormatPermissions(mode fs.FileMode) string {
	return fmt.Sprintf("%03o", mode.Perm())
}

// FormatSize renders a byte count in KB with two decimals.
func FormatSize(size int64) string {
	return fmt.Sprintf("%.2f KB", float64(size)/1024)
}
