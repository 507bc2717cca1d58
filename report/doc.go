// Package report renders scoring results to files: a two-column
// fitness CSV, a human-readable ranked listing, and a consolidated CSV
// with per-author rationales produced by the chat model.
package report
