package view

import (
	"strings"
	"testing"
)

func TestRenderLinkPage(t *testing.T) {
	html, err := RenderLinkPage(LinkPageData{Link: "http://www.example.org"})
	if err != nil {
		t.Fatalf("RenderLinkPage returned error: %v", err)
	}
	if !strings.Contains(html, `href="http://www.example.org"`) {
		t.Fatal("expected the destination as the anchor target")
	}
	if !strings.Contains(html, ">http://www.example.org</a>") {
		t.Fatal("expected the destination as the anchor text")
	}
}

func TestRenderLinkPage_EscapesHostileInput(t *testing.T) {
	html, err := RenderLinkPage(LinkPageData{Link: `http://e.com/"><script>alert(1)</script>`})
	if err != nil {
		t.Fatalf("RenderLinkPage returned error: %v", err)
	}
	if strings.Contains(html, "<script>alert(1)</script>") {
		t.Fatal("destination must be escaped in the rendered page")
	}
}

func TestRenderMessagePage(t *testing.T) {
	for _, msg := range []string{"Invalid request parameters.", "Invalid secret.", "Error fetching data."} {
		html, err := RenderMessagePage(msg)
		if err != nil {
			t.Fatalf("RenderMessagePage(%q) returned error: %v", msg, err)
		}
		if !strings.Contains(html, msg) {
			t.Fatalf("expected rendered page to contain %q", msg)
		}
	}
}
