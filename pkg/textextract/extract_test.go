package textextract

import (
	"strings"
	"testing"
)

func TestExtractPlainText(t *testing.T) {
	for _, ft := range []string{".txt", "txt", "text/plain", ".csv", "text/csv"} {
		data := "hello\nworld\n"
		got, err := Extract(strings.NewReader(data), int64(len(data)), ft)
		if err != nil {
			t.Fatalf("Extract(%q): %v", ft, err)
		}
		if got.Content != "hello\nworld" {
			t.Errorf("Extract(%q) content = %q", ft, got.Content)
		}
	}
}

func TestExtractUnsupportedType(t *testing.T) {
	_, err := Extract(strings.NewReader("x"), 1, ".exe")
	if err == nil {
		t.Fatal("expected error for unsupported type")
	}
}

func TestStripXMLTags(t *testing.T) {
	got := stripXMLTags("<w:p><w:t>hello</w:t><w:t>world</w:t></w:p>")
	if got != "hello world" {
		t.Errorf("stripXMLTags = %q, want %q", got, "hello world")
	}
}
