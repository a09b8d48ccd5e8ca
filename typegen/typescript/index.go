package typescript

import (
	"fmt"
	"sort"
	"strings"
)

// GenerateIndexFile creates the barrel export (src/index.ts) re-exporting
// every generated module
func GenerateIndexFile(header string, modules []string) string {
	var sb strings.Builder
	sb.WriteString(header)
	sb.WriteString("\n")

	sorted := make([]string, len(modules))
	copy(sorted, modules)
	sort.Strings(sorted)

	for _, mod := range sorted {
		sb.WriteString(fmt.Sprintf("export * from './%s';\n", mod))
	}
	return sb.String()
}
