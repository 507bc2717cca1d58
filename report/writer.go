// Copyright 2026 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/poiesic/expertfind/core"
)

// WriteFitnessCSV writes the ranked scores as a two-column CSV.
func WriteFitnessCSV(path string, results []core.FitnessResult) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating fitness csv: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{"Author Name", "Fitness Score"}); err != nil {
		return err
	}
	for _, result := range results {
		record := []string{
			result.AuthorName,
			strconv.FormatFloat(result.Score, 'f', 6, 64),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteRankedText writes a human-readable ranking, followed by the
// authors that could not be scored and why.
func WriteRankedText(path string, query *core.Query, results []core.FitnessResult, degenerate, unembedded []string) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Query: %s\n\n", query.Text())
	fmt.Fprintf(&b, "Ranked authors (%d):\n", len(results))
	for _, result := range results {
		fmt.Fprintf(&b, "%4d. %-40s %.6f\n", result.Rank, result.AuthorName, result.Score)
		if result.Rationale != "" {
			fmt.Fprintf(&b, "      %s\n", result.Rationale)
		}
	}

	if len(degenerate) > 0 {
		fmt.Fprintf(&b, "\nNot scored (no usable publication text):\n")
		for _, name := range degenerate {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}
	if len(unembedded) > 0 {
		fmt.Fprintf(&b, "\nNot scored (no embedding):\n")
		for _, name := range unembedded {
			fmt.Fprintf(&b, "  - %s\n", name)
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0644)
}

// WriteConsolidatedCSV writes the consolidated results file with every
// field quoted. Rationales have their whitespace flattened so each
// record stays on one line.
func WriteConsolidatedCSV(path string, results []core.FitnessResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating consolidated csv: %w", err)
	}
	defer file.Close()

	var b strings.Builder
	writeQuotedRow(&b, "index", "name", "fitness_score", "rationale")
	for i, result := range results {
		writeQuotedRow(&b,
			strconv.Itoa(i),
			result.AuthorName,
			strconv.FormatFloat(result.Score, 'f', 6, 64),
			FlattenWhitespace(result.Rationale),
		)
	}

	_, err = file.WriteString(b.String())
	return err
}

// writeQuotedRow appends one CSV record with every field quoted.
func writeQuotedRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}

// FlattenWhitespace collapses all runs of whitespace, newlines
// included, into single spaces.
func FlattenWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
