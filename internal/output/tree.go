package output

import (
	"strings"
)

const (
	treeEdge = "├── "
	treeLast = "└── "

	// descriptionColumn is where file descriptions start.
	descriptionColumn = 24
)

// FileEntry is one generated file in a summary tree.
type FileEntry struct {
	Name        string
	Description string
}

// RenderFileTree renders dir followed by its files in the given order, with
// descriptions aligned at descriptionColumn.
//
//	included/3.8.3/
//	├── Dockerfile          build recipe
//	└── build.sh            local build helper
func RenderFileTree(dir string, files []FileEntry) string {
	if len(files) == 0 {
		return ""
	}

	styles := GetStyles()

	var sb strings.Builder
	sb.WriteString(styles.Bold.Render(strings.TrimSuffix(dir, "/") + "/"))
	sb.WriteString("\n")

	for i, f := range files {
		connector := treeEdge
		if i == len(files)-1 {
			connector = treeLast
		}

		line := connector + f.Name
		if f.Description != "" {
			// Pad by rune count; the connector glyphs are multi-byte.
			padding := descriptionColumn - len([]rune(line))
			if padding < 2 {
				padding = 2
			}
			line += strings.Repeat(" ", padding) + styles.Muted.Render(f.Description)
		}

		sb.WriteString(line)
		sb.WriteString("\n")
	}

	return sb.String()
}
