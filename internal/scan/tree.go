package scan

import (
	"sort"
	"strings"
)

// RenderTree converts the admitted path list into a visual tree string rooted
// at the archive's top folder. Directories are inferred structurally; ties
// are broken by lexicographic sort so identical inputs render identically.
// Example:
//
//	myrepo-main
//	├── src
//	│   ├── app.ts
//	│   └── util.ts
//	└── README.md
func RenderTree(root string, paths []string) string {
	node := make(map[string]any)
	for _, p := range paths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		current := node
		for _, part := range strings.Split(p, "/") {
			if part == "" || part == "." {
				continue
			}
			if _, ok := current[part]; !ok {
				current[part] = make(map[string]any)
			}
			current = current[part].(map[string]any)
		}
	}

	var sb strings.Builder
	if root != "" {
		sb.WriteString(root)
		sb.WriteString("\n")
	}
	renderTree(&sb, node, "")
	return strings.TrimRight(sb.String(), "\n")
}

func renderTree(sb *strings.Builder, node map[string]any, prefix string) {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		isLast := i == len(keys)-1
		sb.WriteString(prefix)
		if isLast {
			sb.WriteString("└── ")
		} else {
			sb.WriteString("├── ")
		}
		sb.WriteString(k)
		sb.WriteString("\n")

		children := node[k].(map[string]any)
		if len(children) > 0 {
			newPrefix := prefix
			if isLast {
				newPrefix += "    "
			} else {
				newPrefix += "│   "
			}
			renderTree(sb, children, newPrefix)
		}
	}
}
