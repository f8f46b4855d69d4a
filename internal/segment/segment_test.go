package segment

import (
	"fmt"
	"strings"
	"testing"
)

func article(n int) string {
	return fmt.Sprintf("Headline %d\nBy Reporter %d\n%d words\n5 March 2023\nThe Daily Paper\n\nBody of article %d.\n\nMore text.", n, n, 100+n, n)
}

func checkSpans(t *testing.T, text string, blocks []Block) {
	t.Helper()
	clean := Clean(text)
	prevEnd := -1
	for i, b := range blocks {
		if b.Index != i {
			t.Fatalf("block %d has index %d", i, b.Index)
		}
		if b.Start < prevEnd || b.End < b.Start {
			t.Fatalf("block %d span [%d,%d) overlaps or is inverted", i, b.Start, b.End)
		}
		if clean[b.Start:b.End] != b.Text {
			t.Fatalf("block %d text does not match its span", i)
		}
		prevEnd = b.End
	}
}

func TestSplit_PageBreaksRoundTrip(t *testing.T) {
	for _, n := range []int{1, 2, 5} {
		parts := make([]string, n)
		for i := range parts {
			parts[i] = article(i + 1)
		}
		text := strings.Join(parts, "\n\f\n")
		blocks := Split(text)
		if len(blocks) != n {
			t.Fatalf("n=%d: got %d blocks", n, len(blocks))
		}
		for i, b := range blocks {
			if !strings.HasPrefix(b.Text, fmt.Sprintf("Headline %d\n", i+1)) {
				t.Fatalf("n=%d: block %d starts with %q", n, i, b.Text[:20])
			}
		}
		checkSpans(t, text, blocks)
	}
}

func TestSplit_DropsBannerAndFooterPages(t *testing.T) {
	text := "Factiva RTF Display Format\nSearch Summary\nText: china\n\f\n" +
		article(1) + "\n\f\n" + article(2) +
		"\n\f\nSearch Summary\nResults Found 2\n© 2023 Factiva, Inc. All rights reserved."
	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks: %#v", len(blocks), blocks)
	}
	if !strings.HasPrefix(blocks[0].Text, "Headline 1") || !strings.HasPrefix(blocks[1].Text, "Headline 2") {
		t.Fatalf("unexpected blocks %q / %q", blocks[0].Text, blocks[1].Text)
	}
}

func TestSplit_SingleArticleWithCoverPage(t *testing.T) {
	text := "Factiva RTF Display Format\n\f\n" + article(7)
	blocks := Split(text)
	if len(blocks) != 1 || !strings.HasPrefix(blocks[0].Text, "Headline 7") {
		t.Fatalf("got %#v", blocks)
	}
}

func TestSplit_DocumentIDTerminators(t *testing.T) {
	text := "HD Headline A\nWC 120 words\nPD 5 March 2023\nTD\nBody A.\nDocument AAAA000020230305ej35000aa\n" +
		"HD Headline B\nWC 80 words\nTD\nBody B.\nDocument BBBB000020230306ej36000bb\n\n" +
		"Search Summary\nText\tchina\n© 2023 Factiva, Inc. All rights reserved."
	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if !strings.HasPrefix(blocks[0].Text, "HD Headline A") || !strings.HasSuffix(blocks[0].Text, "ej35000aa") {
		t.Fatalf("block 0 = %q", blocks[0].Text)
	}
	if !strings.HasPrefix(blocks[1].Text, "HD Headline B") || !strings.HasSuffix(blocks[1].Text, "ej36000bb") {
		t.Fatalf("block 1 = %q", blocks[1].Text)
	}
	checkSpans(t, text, blocks)
}

func TestSplit_GlyphRuns(t *testing.T) {
	text := article(1) + "\n__________\n" + article(2) + "\n==========\n" + article(3)
	blocks := Split(text)
	if len(blocks) != 3 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	checkSpans(t, text, blocks)
}

func TestSplit_RuleInsideBodyDoesNotSplit(t *testing.T) {
	text := "First headline\n120 words\n5 March 2023\nDaily\n\nFirst section.\n-----\nSecond section of the first article.\n\n" +
		"Second headline\n300 words\n6 March 2023\nDaily\n\nBody two."
	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks: %#v", len(blocks), blocks)
	}
	if !strings.HasSuffix(blocks[0].Text, "Second section of the first article.") {
		t.Fatalf("block 0 = %q", blocks[0].Text)
	}
	if !strings.HasPrefix(blocks[1].Text, "Second headline\n") {
		t.Fatalf("block 1 = %q", blocks[1].Text)
	}
	checkSpans(t, text, blocks)
}

func TestSplit_PageBreakInsideBodyIsJoined(t *testing.T) {
	text := article(1) + "\n\f\nContinued from the previous page.\n\f\n" + article(2)
	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if !strings.HasSuffix(blocks[0].Text, "Continued from the previous page.") || !strings.HasPrefix(blocks[1].Text, "Headline 2\n") {
		t.Fatalf("unexpected blocks %q / %q", blocks[0].Text, blocks[1].Text)
	}
	checkSpans(t, text, blocks)
}

func TestSplit_WordCountAnchors(t *testing.T) {
	text := "Factiva RTF Display Format\n\n" +
		"China unveils plan\nBy Li Wei\n1,234 字\n2023 年 3 月 5 日 14:30\nXinhua\nXNA\n中文\n版权所有 2023 Xinhua\n\nBody one.\n\n" +
		"Second headline\n856 字\n2023 年 3 月 6 日\nReuters\n\nBody two.\nIt mentions 300 字 inline.\n"
	blocks := Split(text)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if !strings.HasPrefix(blocks[0].Text, "China unveils plan\nBy Li Wei") {
		t.Fatalf("block 0 = %q", blocks[0].Text)
	}
	if !strings.HasPrefix(blocks[1].Text, "Second headline") || !strings.HasSuffix(blocks[1].Text, "inline.") {
		t.Fatalf("block 1 = %q", blocks[1].Text)
	}
	checkSpans(t, text, blocks)
}

func TestSplit_NoSeparatorsIsOneBlock(t *testing.T) {
	text := "\n\n  Lonely headline\n\nSome body text.\n\n"
	blocks := Split(text)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks", len(blocks))
	}
	if blocks[0].Text != "  Lonely headline\n\nSome body text." {
		t.Fatalf("block = %q", blocks[0].Text)
	}
}

func TestSplit_BlankIsZeroBlocks(t *testing.T) {
	for _, text := range []string{"", "   \n\n\t", "\f\n\f"} {
		if blocks := Split(text); len(blocks) != 0 {
			t.Fatalf("Split(%q) = %d blocks", text, len(blocks))
		}
	}
}

func TestClean_DropsNoiseLines(t *testing.T) {
	hex := strings.Repeat("0123456789abcdef", 10)
	text := "Headline\nPage 1 of 3\nPAGE2\nNUMPAGES\n" + hex + "\nBody HYPERLINK toc3 text"
	got := Clean(text)
	if got != "Headline\nBody  text" {
		t.Fatalf("Clean = %q", got)
	}
}
