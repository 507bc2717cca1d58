package openai

import (
	"fmt"
	"strings"

	"github.com/poiesic/expertfind/ai"
)

const summarizeSystemPrompt = "You are an academic expert. Given the information of several papers (title and abstract) from one author, summarize the main research contributions of this author."

const justifySystemPrompt = "You are an academic chair of a conference. Given the information of a paper (title and abstract) and a reviewer, explain why the reviewer is a good or bad fit to review the paper according to the provided fitness score."

// buildSummarizePrompt formats an author's publications into the user
// prompt for research summarization. The trailing "Summary of Research:"
// cue steers the model into completing with the summary body directly.
func buildSummarizePrompt(authorName string, papers []ai.Paper) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Author: %s\n\n", authorName)
	for i, paper := range papers {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "Title: %s\nAbstract: %s", paper.Title, paper.Abstract)
	}
	b.WriteString("\n\nSummary of Research:")
	return b.String()
}

// buildJustifyPrompt formats the paper, the reviewer summary, and the
// fitness score into the user prompt for justification generation.
func buildJustifyPrompt(paperTitle, paperAbstract, authorSummary string, score int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Paper Title: %s\n", paperTitle)
	fmt.Fprintf(&b, "Paper Abstract: %s\n", paperAbstract)
	fmt.Fprintf(&b, "Summary of Research by the Reviewer: %s\n", authorSummary)
	fmt.Fprintf(&b, "Fitness Score (out of 100): %d\n\n", score)
	b.WriteString("Explain whether the reviewer is a good fit to review the paper based on the given fitness score:")
	return b.String()
}
