package slack

import (
	"strings"
	"testing"

	"github.com/bakkerme/arxiv-bot/internal/arxiv"
)

func TestFormatPaper(t *testing.T) {
	t.Parallel()

	paper := arxiv.Paper{
		ID:      "2101.00001",
		Title:   "An Example Paper Title",
		Authors: []string{"Ada Lovelace", "Alan Turing"},
		Summary: "We study something interesting.",
	}
	got := formatPaper(paper)
	for _, want := range []string{
		"*An Example Paper Title*",
		"_Ada Lovelace, Alan Turing_",
		"We study something interesting.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("formatPaper output missing %q:\n%s", want, got)
		}
	}
}

func TestFormatPaperWithoutAuthors(t *testing.T) {
	t.Parallel()

	got := formatPaper(arxiv.Paper{Title: "T", Summary: "S"})
	if strings.Contains(got, "_") {
		t.Errorf("author line should be omitted when no authors are known:\n%s", got)
	}
}
