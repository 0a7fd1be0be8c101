package services

import (
	"fmt"
	"strings"
)

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f", p)
}

func periodLabel(month, year int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// matchesTextFilter checks if a task name contains the filter, ignoring case
func matchesTextFilter(name, filter string) bool {
	if filter == "" {
		return true
	}
	return strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}
