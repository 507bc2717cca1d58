package report

import (
	"fmt"
	"path/filepath"
)

// FitnessCSVName returns the file name for the per-run fitness CSV.
func FitnessCSVName(strategy string, queryIndex int) string {
	return fmt.Sprintf("fitness_scores_%s_query_%d.csv", strategy, queryIndex)
}

// RankedTextName returns the file name for the human-readable ranking.
func RankedTextName(strategy string, queryIndex int) string {
	return fmt.Sprintf("output_%s_query_%d.txt", strategy, queryIndex)
}

// ConsolidatedCSVPath returns the path of the consolidated results file,
// grouped in a per-strategy directory.
func ConsolidatedCSVPath(dir, strategy string, queryIndex int) string {
	return filepath.Join(dir, strategy, fmt.Sprintf("%d.csv", queryIndex))
}
