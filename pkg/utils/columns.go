package utils

import "strings"

var columnReplacer = strings.NewReplacer(" ", "_", ".", "_")

// NormalizeColumn lower-cases a column name and replaces spaces and dots with underscores.
func NormalizeColumn(name string) string {
	return columnReplacer.Replace(strings.ToLower(strings.TrimSpace(name)))
}

func NormalizeColumns(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = NormalizeColumn(n)
	}
	return out
}
