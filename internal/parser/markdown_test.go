package parser

import (
	"strings"
	"testing"
)

func TestMarkdownParser_HeadingsOnOwnLines(t *testing.T) {
	input := `# INTRODUCTION

Intro text.

## Creating Fillable Forms

Section A content.

### Notes

Notes content.
`
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	want := "INTRODUCTION\nIntro text.\nCreating Fillable Forms\nSection A content.\nNotes\nNotes content."
	if pages[0].Text != want {
		t.Errorf("expected %q, got %q", want, pages[0].Text)
	}
	if pages[0].Number != 1 {
		t.Errorf("expected page number 1, got %d", pages[0].Number)
	}
}

func TestMarkdownParser_NoDuplicateParagraphText(t *testing.T) {
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader("Just some *plain* text."), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.Count(pages[0].Text, "text."); got != 1 {
		t.Errorf("expected paragraph text once, found %d times in %q", got, pages[0].Text)
	}
	if pages[0].Text != "Just some plain text." {
		t.Errorf("expected emphasis flattened, got %q", pages[0].Text)
	}
}

func TestMarkdownParser_ListItemsAndCodeBlocks(t *testing.T) {
	input := "# API Reference\n\n- first item\n- second item\n\n```\nGET /api/users\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	text := pages[0].Text
	for _, want := range []string{"API Reference\n", "first item\nsecond item", "GET /api/users", "More text after code."} {
		if !strings.Contains(text, want) {
			t.Errorf("expected text to contain %q, got %q", want, text)
		}
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	pages, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected 0 pages for empty input, got %d", len(pages))
	}
}
