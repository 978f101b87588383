package parser

import (
	"strings"
	"testing"
)

func TestHTMLParser_HeadingsAndBlocks(t *testing.T) {
	input := `<html><head><title>Guide</title><style>p{}</style></head>
<body>
<nav>Home | About</nav>
<h1>FORMS OVERVIEW</h1>
<p>Create <b>fillable</b> forms.</p>
<ul><li>Text fields</li><li>Check boxes</li></ul>
<script>var x = 1;</script>
<footer>Copyright</footer>
</body></html>`

	p := &HTMLParser{}
	pages, err := p.Parse(strings.NewReader(input), "guide.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	want := "FORMS OVERVIEW\nCreate fillable forms.\nText fields\nCheck boxes"
	if pages[0].Text != want {
		t.Errorf("expected %q, got %q", want, pages[0].Text)
	}
}

func TestHTMLParser_EmptyBody(t *testing.T) {
	p := &HTMLParser{}
	pages, err := p.Parse(strings.NewReader("<html><body></body></html>"), "empty.html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected 0 pages, got %d", len(pages))
	}
}
